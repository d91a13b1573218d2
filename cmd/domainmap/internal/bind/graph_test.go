package bind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainmap/domainmap/cmd/domainmap/commands"
	"github.com/domainmap/domainmap/cmd/domainmap/internal/bind"
	"github.com/domainmap/domainmap/pkg/mapexec"
)

func TestBindGraphOptions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		flags map[string]string
		want  mapexec.GraphParams
	}{
		{
			name:  "defaults to a yaml dump on stdout",
			input: "scan.txt",
			want: mapexec.GraphParams{
				InputPath: "scan.txt",
				Format:    "yaml",
			},
		},
		{
			name:  "json dump to a file with explicit root",
			input: "scan.txt",
			flags: map[string]string{
				"format": "json",
				"output": "graph.json",
				"root":   "example.com",
			},
			want: mapexec.GraphParams{
				InputPath:  "scan.txt",
				Root:       "example.com",
				Format:     "json",
				OutputPath: "graph.json",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := commands.NewGraphCommand()
			for name, value := range tt.flags {
				require.NoError(t, cmd.Flags().Set(name, value))
			}

			got, err := bind.BindGraphOptions(cmd, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
