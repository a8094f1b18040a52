package config

// EnvPrefix is the envconfig prefix for every variable the service reads.
const EnvPrefix = "FURNIMARKET"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "FURNIMARKET_APP_ENV"
	EnvPort     = "FURNIMARKET_APP_PORT"
	EnvDBDSN    = "FURNIMARKET_DB_DSN"
	EnvDBHost   = "FURNIMARKET_DB_HOST"
	EnvDBUser   = "FURNIMARKET_DB_USER"
	EnvDBName   = "FURNIMARKET_DB_NAME"
	EnvRedisURL = "FURNIMARKET_REDIS_URL"

	EnvJWTSecret  = "FURNIMARKET_JWT_SECRET"
	EnvJWTIssuer  = "FURNIMARKET_JWT_ISSUER"
	EnvJWTExpMins = "FURNIMARKET_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID      = "FURNIMARKET_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic = "FURNIMARKET_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub   = "FURNIMARKET_PUBSUB_ORDERS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
