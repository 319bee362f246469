package config

import (
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty config is valid",
			config:  &Config{},
			wantErr: false,
		},
		{
			name:    "built-in defaults are valid",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "valid full config",
			config: &Config{
				Meta: Meta{
					Name:        "Support Line",
					Description: "Outbound support callbacks",
				},
				Defaults: Defaults{
					AgentName:   "support-agent",
					PhoneNumber: "+14155550100",
					TransferTo:  "+16505550111",
					RoomPrefix:  "support-",
				},
				Options: Options{
					EnvFile: ".env.production",
				},
			},
			wantErr: false,
		},
		{
			name: "invalid phone number",
			config: &Config{
				Defaults: Defaults{PhoneNumber: "4155550100"},
			},
			wantErr: true,
			errMsg:  "E.164",
		},
		{
			name: "invalid transfer number",
			config: &Config{
				Defaults: Defaults{TransferTo: "+0123"},
			},
			wantErr: true,
			errMsg:  "defaults.transfer_to",
		},
		{
			name: "agent name with spaces",
			config: &Config{
				Defaults: Defaults{AgentName: "my agent"},
			},
			wantErr: true,
			errMsg:  "defaults.agent_name",
		},
		{
			name: "agent name too long",
			config: &Config{
				Defaults: Defaults{AgentName: strings.Repeat("a", maxAgentNameLength+1)},
			},
			wantErr: true,
			errMsg:  "too long",
		},
		{
			name: "room prefix with slash",
			config: &Config{
				Defaults: Defaults{RoomPrefix: "call/"},
			},
			wantErr: true,
			errMsg:  "defaults.room_prefix",
		},
		{
			name: "env file with traversal",
			config: &Config{
				Options: Options{EnvFile: "../.env"},
			},
			wantErr: true,
			errMsg:  "path traversal",
		},
		{
			name: "absolute env file path",
			config: &Config{
				Options: Options{EnvFile: "/etc/secrets.env"},
			},
			wantErr: true,
			errMsg:  "relative",
		},
		{
			name: "name too long",
			config: &Config{
				Meta: Meta{Name: strings.Repeat("x", maxNameLength+1)},
			},
			wantErr: true,
			errMsg:  "too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err != nil && tt.errMsg != "" {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Config.Validate() error = %v, want substring %q", err, tt.errMsg)
				}
			}
		})
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		wantErr bool
	}{
		{
			name:    "valid US number",
			number:  "+14155550100",
			wantErr: false,
		},
		{
			name:    "valid Indian number",
			number:  "+918980579954",
			wantErr: false,
		},
		{
			name:    "valid short number",
			number:  "+4567",
			wantErr: false,
		},
		{
			name:    "missing plus",
			number:  "14155550100",
			wantErr: true,
		},
		{
			name:    "leading zero country code",
			number:  "+0123456789",
			wantErr: true,
		},
		{
			name:    "contains dashes",
			number:  "+1-415-555-0100",
			wantErr: true,
		},
		{
			name:    "contains spaces",
			number:  "+1 415 555 0100",
			wantErr: true,
		},
		{
			name:    "too many digits",
			number:  "+1234567890123456",
			wantErr: true,
		},
		{
			name:    "empty",
			number:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhoneNumber("defaults.phone_number", tt.number)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePhoneNumber(%q) error = %v, wantErr %v", tt.number, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAgentName(t *testing.T) {
	tests := []struct {
		name      string
		agentName string
		wantErr   bool
	}{
		{
			name:      "default agent name",
			agentName: "outbound-caller",
			wantErr:   false,
		},
		{
			name:      "with dots and underscores",
			agentName: "agent_v2.prod",
			wantErr:   false,
		},
		{
			name:      "leading dash",
			agentName: "-agent",
			wantErr:   true,
		},
		{
			name:      "with spaces",
			agentName: "my agent",
			wantErr:   true,
		},
		{
			name:      "empty",
			agentName: "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAgentName("defaults.agent_name", tt.agentName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAgentName(%q) error = %v, wantErr %v", tt.agentName, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_EffectiveDefaults(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		want   Defaults
	}{
		{
			name:   "empty config gets all built-ins",
			config: &Config{},
			want: Defaults{
				AgentName:   DefaultAgentName,
				PhoneNumber: DefaultPhoneNumber,
				TransferTo:  DefaultTransferTo,
			},
		},
		{
			name: "partial config keeps set fields",
			config: &Config{
				Defaults: Defaults{AgentName: "custom-agent"},
			},
			want: Defaults{
				AgentName:   "custom-agent",
				PhoneNumber: DefaultPhoneNumber,
				TransferTo:  DefaultTransferTo,
			},
		},
		{
			name: "room prefix has no built-in",
			config: &Config{
				Defaults: Defaults{RoomPrefix: "call-"},
			},
			want: Defaults{
				AgentName:   DefaultAgentName,
				PhoneNumber: DefaultPhoneNumber,
				TransferTo:  DefaultTransferTo,
				RoomPrefix:  "call-",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.config.EffectiveDefaults()
			if got != tt.want {
				t.Errorf("EffectiveDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfig_EnvFile(t *testing.T) {
	empty := &Config{}
	if got := empty.EnvFile(); got != DefaultEnvFile {
		t.Errorf("EnvFile() = %s, want %s", got, DefaultEnvFile)
	}

	custom := &Config{Options: Options{EnvFile: ".env.staging"}}
	if got := custom.EnvFile(); got != ".env.staging" {
		t.Errorf("EnvFile() = %s, want .env.staging", got)
	}
}

func TestDefaultConfig_PassesValidation(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}
