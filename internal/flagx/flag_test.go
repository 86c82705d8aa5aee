package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	clientFlags := []string{"-d", "-o", "-a", "-t"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate values", []string{"-d", "kodex.db", "-x", "1"}, clientFlags, []string{"-d", "kodex.db"}},
		{"equals form", []string{"-a=localhost:50051", "-v"}, clientFlags, []string{"-a=localhost:50051"}},
		{"order preserved", []string{"-o", "out", "-c", "cfg.json", "-d", "h.db"}, clientFlags, []string{"-o", "out", "-d", "h.db"}},
		{"config flags only", []string{"-a", ":1", "--config=alt.json"}, []string{"-c", "--config"}, []string{"--config=alt.json"}},
		{"dangling flag", []string{"-t"}, clientFlags, []string{"-t"}},
		{"next flag is not a value", []string{"-t", "-d", "x.db"}, clientFlags, []string{"-t", "-d", "x.db"}},
		{"value looking like a flag in equals form", []string{"-o=--qr"}, clientFlags, []string{"-o=--qr"}},
		{"repeated flag kept", []string{"-d", "a.db", "-d", "b.db"}, clientFlags, []string{"-d", "a.db", "-d", "b.db"}},
		{"positional ignored", []string{"scan", "img.png"}, clientFlags, []string{}},
		{"empty", nil, clientFlags, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short -c with value", []string{"-c", "/path/short.json"}, "/path/short.json"},
		{"long -config with value", []string{"-config", "/path/long.json"}, "/path/long.json"},
		{"equals form", []string{"--config=/path/eq.json", "-a", ":8080"}, "/path/eq.json"},
		{"unknown flags are ignored", []string{"-x", "1", "-y", "2"}, ""},
		{"last wins", []string{"-c", "/path/1.json", "-config", "/path/2.json"}, "/path/2.json"},
		{"no args", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}
