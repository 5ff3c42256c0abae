package runner

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f4hrenh9it/go-testrail/config"
)

func TestFromProperties(t *testing.T) {
	p := config.FromMap(map[string]string{
		config.RunnerCommand: "java -jar karate.jar",
		config.FeaturePaths:  "features/users,features/posts",
		config.Threads:       "4",
		config.JSONReportDir: "out",
		config.KarateEnv:     "dev",
		config.HTMLReport:    "false",
	}, nil)
	inv := FromProperties(p, []string{"~@NO-DATA-DEV", "@R2,@API"})

	assert.Equal(t, []string{
		"java", "-jar", "karate.jar",
		"--tags", "~@NO-DATA-DEV",
		"--tags", "@R2,@API",
		"--threads", "4",
		"--output", "out",
		"--format", "~html,cucumber:json",
		"--env", "dev",
		"features/users", "features/posts",
	}, inv.Args())
}

func TestFromProperties_Defaults(t *testing.T) {
	inv := FromProperties(config.FromMap(map[string]string{config.Threads: "many"}, nil), nil)
	assert.Equal(t, Invocation{
		Command:   []string{"karate"},
		Features:  []string{"classpath:features/"},
		Threads:   1,
		ReportDir: config.DefaultReportDir,
		HTML:      true,
	}, inv)
	assert.Equal(t, "karate --threads 1 --output ./target/surefire-reports --format html,cucumber:json classpath:features/", inv.String())
}

func TestInvocation_StringQuotes(t *testing.T) {
	inv := Invocation{Command: []string{"karate"}, Tags: []string{"~@ignore"}, Features: []string{"my features"}}
	assert.Equal(t, "karate --tags '~@ignore' --threads 0 --format '~html,cucumber:json' 'my features'", inv.String())
}

func TestRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	var out bytes.Buffer
	r := New(nil)
	r.Stdout = &out

	inv := Invocation{Command: []string{"sh", "-c", `echo "$@"`, "sh"}, Threads: 2, Features: []string{"a.feature"}}
	require.NoError(t, r.Run(context.Background(), inv))
	assert.Equal(t, "--threads 2 --format ~html,cucumber:json a.feature\n", out.String())

	err := r.Run(context.Background(), Invocation{Command: []string{"sh", "-c", "exit 3"}})
	var fe *FailuresError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.ExitCode)

	err = r.Run(context.Background(), Invocation{Command: []string{"definitely-not-a-runner-binary"}})
	require.Error(t, err)
	assert.False(t, errors.As(err, &fe))

	assert.Error(t, r.Run(context.Background(), Invocation{}))
}

func TestAssert(t *testing.T) {
	failures := &FailuresError{ExitCode: 1}
	other := errors.New("boom")
	assert.NoError(t, Assert(nil, true))
	assert.NoError(t, Assert(failures, false))
	assert.Equal(t, failures, Assert(failures, true))
	assert.Equal(t, other, Assert(other, false))
}
