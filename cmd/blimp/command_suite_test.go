package main

import (
	"bytes"

	"github.com/spf13/cobra"
	"github.com/srg/blimp/internal/testutils"
)

// CommandTestSuite extends MockBLEDeviceSuite with command testing utilities.
// All cmd/blimp test suites should embed this instead of MockBLEDeviceSuite.
type CommandTestSuite struct {
	testutils.MockBLEDeviceSuite
}

// SetupTest resets command flags before each test for proper isolation
func (s *CommandTestSuite) SetupTest() {
	s.MockBLEDeviceSuite.SetupTest()

	serveName = ""
	servePeriod = 0
	serveDuration = 0
	serveVerbose = false
	serveNoColor = false
	profileFormat = "text"
	sampleCount = 5
	sampleSeed = 0

	s.Require().NoError(rootCmd.PersistentFlags().Set("config", ""))
	s.Require().NoError(rootCmd.PersistentFlags().Set("log-level", ""))
}

// ExecuteCommand runs a cobra command with args and returns stdout, stderr and
// the command error. Logs go to stderr.
func (s *CommandTestSuite) ExecuteCommand(cmd *cobra.Command, args ...string) (string, string, error) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
