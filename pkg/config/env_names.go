package config

// EnvPrefix namespaces every environment variable consumed by envconfig.
const EnvPrefix = "TRENDORA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "TRENDORA_DB_DSN"
	EnvDBHost = "TRENDORA_DB_HOST"
	EnvDBUser = "TRENDORA_DB_USER"
	EnvDBName = "TRENDORA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
