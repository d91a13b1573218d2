package bind_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainmap/domainmap/cmd/domainmap/commands"
	"github.com/domainmap/domainmap/cmd/domainmap/internal/bind"
	"github.com/domainmap/domainmap/pkg/export"
	"github.com/domainmap/domainmap/pkg/mapexec"
)

func TestBindExtractOptions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		flags   map[string]string
		want    mapexec.ExtractParams
		wantErr error
	}{
		{
			name:  "defaults to the categorized listing",
			input: "scan.txt",
			want: mapexec.ExtractParams{
				InputPath: "scan.txt",
				Mode:      export.ModeCategorized,
			},
		},
		{
			name:  "simple listing with explicit root",
			input: "scan.txt",
			flags: map[string]string{
				"simple": "true",
				"root":   "example.com",
			},
			want: mapexec.ExtractParams{
				InputPath: "scan.txt",
				Root:      "example.com",
				Mode:      export.ModeSimple,
			},
		},
		{
			name:  "detailed listing with all export targets",
			input: "-",
			flags: map[string]string{
				"detailed":     "true",
				"export":       "out/domains.txt",
				"export-ips":   "true",
				"export-clean": "out/clean.txt",
			},
			want: mapexec.ExtractParams{
				InputPath:       "-",
				Mode:            export.ModeDetailed,
				ExportPath:      "out/domains.txt",
				ExportIPs:       true,
				ExportCleanPath: "out/clean.txt",
			},
		},
		{
			name:  "conflicting listing modes",
			input: "scan.txt",
			flags: map[string]string{
				"simple":   "true",
				"detailed": "true",
			},
			wantErr: mapexec.ErrConflictingModeFlags,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := commands.NewExtractCommand()
			for name, value := range tt.flags {
				require.NoError(t, cmd.Flags().Set(name, value), fmt.Sprintf("set --%s", name))
			}

			got, err := bind.BindExtractOptions(cmd, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
