package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type S3Config struct {
	Bucket        string `env:"S3_BUCKET"`
	Region        string `env:"S3_REGION" envDefault:"eu-central-1"`
	Endpoint      string `env:"S3_ENDPOINT"`
	Prefix        string `env:"S3_PREFIX" envDefault:"uploads"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

type Config struct {
	Port  string `env:"PORT" envDefault:"8080"`
	DBURL string `env:"DB_URL" envDefault:"data/gallery.db"`

	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionStore  string        `env:"SESSION_STORE" envDefault:"db"` // db | memory
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`

	DemoAuth      bool   `env:"DEMO_AUTH" envDefault:"false"`
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"password"`

	PasswordHasher string   `env:"PASSWORD_HASHER" envDefault:"bcrypt"` // bcrypt | scrypt
	PromoCodes     []string `env:"PROMO_CODES" envSeparator:","`

	UploadsDir     string `env:"UPLOADS_DIR" envDefault:"uploads"`
	ImageProcessor string `env:"IMAGE_PROCESSOR" envDefault:"imaging"` // imaging | copy
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"local"`   // local | s3
	S3             S3Config

	CORSOrigin string `env:"CORS_ORIGIN"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"console"`
	GinMode    string `env:"GIN_MODE" envDefault:"debug"`
}

var Cfg = &Config{}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found. Using system environment variables.")
	}

	if err := env.Parse(Cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid environment configuration")
	}
}
