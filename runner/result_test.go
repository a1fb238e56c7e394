package runner

import "testing"

func TestResult_Success(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		timedOut bool
		want     bool
	}{
		{name: "clean exit", exitCode: 0, want: true},
		{name: "non-zero exit", exitCode: 1, want: false},
		{name: "signal kill", exitCode: -1, want: false},
		{name: "timed out with zero exit", exitCode: 0, timedOut: true, want: false},
		{name: "timed out with non-zero exit", exitCode: -1, timedOut: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Result{ExitCode: tt.exitCode, TimedOut: tt.timedOut}
			if got := r.Success(); got != tt.want {
				t.Errorf("Success() = %v, want %v", got, tt.want)
			}
			if got := r.Failed(); got == tt.want {
				t.Errorf("Failed() = %v, want %v", got, !tt.want)
			}
		})
	}
}

func TestResult_CommandLine(t *testing.T) {
	r := &Result{Path: "/bin/echo"}
	if got := r.CommandLine(); got != "/bin/echo" {
		t.Errorf("CommandLine() = %q", got)
	}

	r.Args = []string{"hello", "world"}
	if got := r.CommandLine(); got != "/bin/echo hello world" {
		t.Errorf("CommandLine() = %q", got)
	}
}
