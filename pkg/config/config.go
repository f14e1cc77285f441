package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ALCOTRADE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv      = "ALCOTRADE_APP_ENV"
	EnvPort        = "ALCOTRADE_APP_PORT"
	EnvDBDSN       = "ALCOTRADE_DB_DSN"
	EnvDBDriver    = "ALCOTRADE_DB_DRIVER"
	EnvDBHost      = "ALCOTRADE_DB_HOST"
	EnvDBUser      = "ALCOTRADE_DB_USER"
	EnvDBName      = "ALCOTRADE_DB_NAME"
	EnvRedisURL    = "ALCOTRADE_REDIS_URL"
	EnvJWTSecret   = "ALCOTRADE_JWT_SECRET"
	EnvJWTIssuer   = "ALCOTRADE_JWT_ISSUER"
	EnvJWTExpMins  = "ALCOTRADE_JWT_EXPIRATION_MINUTES"
	EnvSessionTTL  = "ALCOTRADE_SESSION_TTL_MINUTES"
	EnvStorage     = "ALCOTRADE_STORAGE_PROVIDER"
	EnvCloudinary  = "CLOUDINARY_URL"
	EnvSeedEmail   = "ALCOTRADE_SEED_ADMIN_EMAIL"
	EnvSeedPass    = "ALCOTRADE_SEED_ADMIN_PASSWORD"
	EnvCORSOrigins = "ALCOTRADE_CORS_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Storage       StorageConfig
	Cloudinary    CloudinaryConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Supabase      SupabaseConfig
	Media         MediaConfig
	Seed          SeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"ALCOTRADE_APP_ENV" required:"true"`
	Port         string   `envconfig:"ALCOTRADE_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"ALCOTRADE_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"ALCOTRADE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"ALCOTRADE_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ALCOTRADE_DB_DSN"`
	Driver string `envconfig:"ALCOTRADE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ALCOTRADE_DB_HOST"`
	LegacyPort     int    `envconfig:"ALCOTRADE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ALCOTRADE_DB_USER"`
	LegacyPassword string `envconfig:"ALCOTRADE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ALCOTRADE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ALCOTRADE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ALCOTRADE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ALCOTRADE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ALCOTRADE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ALCOTRADE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the local sqlite driver was requested.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"ALCOTRADE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ALCOTRADE_REDIS_ADDR"`
	Password     string        `envconfig:"ALCOTRADE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ALCOTRADE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ALCOTRADE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ALCOTRADE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ALCOTRADE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ALCOTRADE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ALCOTRADE_REDIS_WRITE_TIMEOUT" default:"5s"`
	CacheTTL     time.Duration `envconfig:"ALCOTRADE_REDIS_CACHE_TTL" default:"10m"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ALCOTRADE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ALCOTRADE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ALCOTRADE_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"ALCOTRADE_SESSION_TTL_MINUTES" default:"10080"`
	CookieName        string `envconfig:"ALCOTRADE_SESSION_COOKIE" default:"alcotrade_session"`
}

// SessionTTL returns how long a login session stays valid in Redis.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

// AccessTTL returns the access token lifetime.
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ALCOTRADE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ALCOTRADE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ALCOTRADE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ALCOTRADE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ALCOTRADE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"ALCOTRADE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"ALCOTRADE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"ALCOTRADE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ALCOTRADE_AUTO_MIGRATE" default:"false"`
}

const (
	StorageCloudinary = "cloudinary"
	StorageGCS        = "gcs"
	StorageSupabase   = "supabase"
)

type StorageConfig struct {
	Provider      string `envconfig:"ALCOTRADE_STORAGE_PROVIDER" default:"cloudinary"`
	DefaultFolder string `envconfig:"ALCOTRADE_STORAGE_FOLDER" default:"Alcotrade"`
}

func (s StorageConfig) validate(cfg Config) error {
	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case StorageCloudinary:
		if cfg.Cloudinary.URL == "" {
			return fmt.Errorf("%s is required for the cloudinary storage provider", EnvCloudinary)
		}
	case StorageGCS:
		if cfg.GCS.BucketName == "" {
			return fmt.Errorf("ALCOTRADE_GCS_BUCKET_NAME is required for the gcs storage provider")
		}
	case StorageSupabase:
		if cfg.Supabase.URL == "" || cfg.Supabase.ServiceKey == "" || cfg.Supabase.Bucket == "" {
			return fmt.Errorf("supabase url, service key and bucket are required for the supabase storage provider")
		}
	default:
		return fmt.Errorf("unknown %s %q", EnvStorage, s.Provider)
	}
	return nil
}

type CloudinaryConfig struct {
	URL string `envconfig:"CLOUDINARY_URL"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ALCOTRADE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ALCOTRADE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ALCOTRADE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"ALCOTRADE_GCS_BUCKET_NAME"`
	PublicBase string `envconfig:"ALCOTRADE_GCS_PUBLIC_BASE" default:"https://storage.googleapis.com"`
}

type SupabaseConfig struct {
	URL        string `envconfig:"ALCOTRADE_SUPABASE_URL"`
	ServiceKey string `envconfig:"ALCOTRADE_SUPABASE_SERVICE_KEY"`
	Bucket     string `envconfig:"ALCOTRADE_SUPABASE_BUCKET"`
}

type MediaConfig struct {
	MaxUploadMB      int    `envconfig:"ALCOTRADE_MAX_UPLOAD_MB" default:"20"`
	MaxAvatarMB      int    `envconfig:"ALCOTRADE_MAX_AVATAR_MB" default:"5"`
	MaxOGImageMB     int    `envconfig:"ALCOTRADE_MAX_OG_IMAGE_MB" default:"10"`
	DefaultUserImage string `envconfig:"ALCOTRADE_DEFAULT_USER_IMAGE" default:"/avatar.jpg"`
}

// MaxUploadBytes converts the configured megabytes into bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	return int64(m.MaxUploadMB) << 20
}

func (m MediaConfig) MaxAvatarBytes() int64 {
	return int64(m.MaxAvatarMB) << 20
}

func (m MediaConfig) MaxOGImageBytes() int64 {
	return int64(m.MaxOGImageMB) << 20
}

type SeedConfig struct {
	AdminEmail    string `envconfig:"ALCOTRADE_SEED_ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ALCOTRADE_SEED_ADMIN_PASSWORD"`
	AdminName     string `envconfig:"ALCOTRADE_SEED_ADMIN_NAME" default:"Admin"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
