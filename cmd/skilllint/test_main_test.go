package main

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	tempHome, err := os.MkdirTemp("", "skilllint-cmd-test-")
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = os.RemoveAll(tempHome)
	}()

	setEnvOrPanic := func(key, value string) {
		if err := os.Setenv(key, value); err != nil {
			panic(err)
		}
	}

	setEnvOrPanic("HOME", tempHome)
	setEnvOrPanic("SKILLLINT_HOME", tempHome+"/.skilllint")
	setEnvOrPanic("SKILLLINT_HISTORY", "false")
	setEnvOrPanic("NO_COLOR", "1")

	os.Exit(m.Run())
}
