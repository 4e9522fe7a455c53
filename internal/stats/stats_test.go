package stats

import (
	"encoding/json"
	"testing"

	"github.com/klauern/skilllint/internal/frontmatter"
	"github.com/klauern/skilllint/internal/model"
)

func skill(issues ...model.Finding) model.SkillReport {
	return model.NewSkillReport("s", "/s", frontmatter.NewBlock(), issues, 1, model.Layout{})
}

func finding(sev model.Severity) model.Finding {
	return model.Finding{Field: "f", Status: model.StatusMissing, Severity: sev}
}

func TestFromSkills(t *testing.T) {
	tests := map[string]struct {
		skills []model.SkillReport
		want   Summary
	}{
		"empty": {want: Summary{}},
		"clean, advisory-only and blocking skills": {
			skills: []model.SkillReport{
				skill(),
				skill(finding(model.SeverityLow), finding(model.SeverityLow)),
				skill(finding(model.SeverityCritical), finding(model.SeverityCritical)),
			},
			want: Summary{Skills: 3, ValidSkills: 1, SkillsWithIssues: 2, Critical: 2, Low: 2},
		},
		"not found skill is in neither bucket": {
			skills: []model.SkillReport{model.NotFoundReport("ghost", "/ghost")},
			want:   Summary{Skills: 1},
		},
		"every severity": {
			skills: []model.SkillReport{
				skill(
					finding(model.SeverityCritical),
					finding(model.SeverityHigh),
					finding(model.SeverityMedium),
					finding(model.SeverityLow),
				),
			},
			want: Summary{Skills: 1, SkillsWithIssues: 1, Critical: 1, High: 1, Medium: 1, Low: 1},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := FromSkills(tt.skills); got != tt.want {
				t.Errorf("FromSkills() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	plugins := map[string]model.PluginReport{
		"a": {Name: "a", Skills: []model.SkillReport{skill(), skill(finding(model.SeverityMedium))}},
		"b": {Name: "b", Skills: []model.SkillReport{skill(finding(model.SeverityHigh))}},
		"c": {Name: "c"},
	}

	got := Aggregate(plugins)
	want := Summary{Plugins: 3, Skills: 3, ValidSkills: 1, SkillsWithIssues: 2, High: 1, Medium: 1}
	if got != want {
		t.Errorf("Aggregate() = %+v, want %+v", got, want)
	}
	if got.Issues() != 2 || got.Blocking() != 1 {
		t.Errorf("Issues() = %d, Blocking() = %d", got.Issues(), got.Blocking())
	}

	if empty := Aggregate(nil); empty != (Summary{}) {
		t.Errorf("Aggregate(nil) = %+v", empty)
	}
}

func TestMergeIsAssociative(t *testing.T) {
	a := Summary{Plugins: 1, Skills: 2, ValidSkills: 1, Critical: 3}
	b := Summary{Skills: 4, SkillsWithIssues: 2, Low: 5}
	c := Summary{Plugins: 2, High: 1, Medium: 7}

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))
	if left != right {
		t.Errorf("(a+b)+c = %+v, a+(b+c) = %+v", left, right)
	}
	if a.Merge(b) != b.Merge(a) {
		t.Error("Merge is not commutative")
	}
	if a.Merge(Summary{}) != a {
		t.Error("zero Summary is not the identity")
	}
}

func TestCount(t *testing.T) {
	s := Summary{Critical: 1, High: 2, Medium: 3, Low: 4}
	for sev, want := range map[model.Severity]int{
		model.SeverityCritical: 1,
		model.SeverityHigh:     2,
		model.SeverityMedium:   3,
		model.SeverityLow:      4,
		model.Severity(99):     0,
	} {
		if got := s.Count(sev); got != want {
			t.Errorf("Count(%d) = %d, want %d", sev, got, want)
		}
	}
}

func TestSummaryJSONKeys(t *testing.T) {
	data, err := json.Marshal(Summary{Plugins: 1, Skills: 2, ValidSkills: 1, SkillsWithIssues: 1, Low: 1})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"total_plugins":1,"total_skills":2,"valid_skills":1,"skills_with_issues":1,"critical_issues":0,"high_issues":0,"medium_issues":0,"low_issues":1}`
	if string(data) != want {
		t.Errorf("json = %s\nwant %s", data, want)
	}
}
