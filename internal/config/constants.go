package config

// Lua schema field names and globals
const (
	luaGlobalCaller  = "caller"
	luaFieldMeta     = "meta"
	luaFieldDefaults = "defaults"
	luaFieldOptions  = "options"
	luaFieldName     = "name"
	luaFieldDesc     = "description"
	luaFieldAgent    = "agent_name"
	luaFieldPhone    = "phone_number"
	luaFieldTransfer = "transfer_to"
	luaFieldRoom     = "room_prefix"
	luaFieldEnvFile  = "env_file"
)
