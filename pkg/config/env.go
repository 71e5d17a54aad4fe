package config

const EnvPrefix = "FIREPLAY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	AuthProviderFirebase = "firebase"
	AuthProviderJWT      = "jwt"

	CatalogSourceMock = "mock"
	CatalogSourceRAWG = "rawg"

	CartRemoteFirestore = "firestore"
	CartRemoteSQL       = "sql"
)

// Environment variable names referenced by validation messages and tests.
const (
	EnvAppEnv          = "FIREPLAY_APP_ENV"
	EnvPort            = "FIREPLAY_APP_PORT"
	EnvRedisURL        = "FIREPLAY_REDIS_URL"
	EnvRedisAddr       = "FIREPLAY_REDIS_ADDR"
	EnvDBDSN           = "FIREPLAY_DB_DSN"
	EnvGCPProjectID    = "FIREPLAY_GCP_PROJECT_ID"
	EnvAuthProvider    = "FIREPLAY_AUTH_PROVIDER"
	EnvJWTSecret       = "FIREPLAY_JWT_SECRET"
	EnvCatalogSource   = "FIREPLAY_CATALOG_SOURCE"
	EnvRAWGAPIKey      = "FIREPLAY_RAWG_API_KEY"
	EnvCartRemoteStore = "FIREPLAY_CART_REMOTE_STORE"
	EnvUseSQLite       = "FIREPLAY_USE_SQLITE"
)
