package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Postgres   Postgres   `yaml:"postgres"`
	Identity   Identity   `yaml:"identity"`
	ES         ES         `yaml:"elasticsearch"`
	Minio      Minio      `yaml:"minio"`
	VideoCall  VideoCall  `yaml:"video_call"`
	Enrollment Enrollment `yaml:"enrollment"`
	Reconcile  Reconcile  `yaml:"reconcile"`
}

type Minio struct {
	Endpoint   string        `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"minio:9000"`
	AccessKey  string        `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey  string        `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL     bool          `yaml:"use_ssl"`
	Bucket     string        `yaml:"bucket" env-default:"uploads"`
	PresignTTL time.Duration `yaml:"presign_ttl" env-default:"24h"`
}

type ES struct {
	Hosts    []string `yaml:"hosts"`
	Index    string   `yaml:"index" env-default:"courses"`
	Password string   `yaml:"password" env:"ES_PASSWORD"`
}

// Identity holds the verification settings for tokens issued by the
// external identity provider.
type Identity struct {
	SecretKey string `yaml:"secret_key" env:"IDENTITY_SECRET_KEY"`
	Issuer    string `yaml:"issuer"`
	AdminRole string `yaml:"admin_role" env-default:"admin"`
}

type VideoCall struct {
	APIKey    string        `yaml:"api_key" env:"VIDEO_API_KEY"`
	APISecret string        `yaml:"api_secret" env:"VIDEO_API_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env-default:"1h"`
}

type Enrollment struct {
	RetryAttempts  uint64        `yaml:"retry_attempts" env-default:"3"`
	InitialBackoff time.Duration `yaml:"initial_backoff" env-default:"100ms"`
	MaxBackoff     time.Duration `yaml:"max_backoff" env-default:"2s"`
}

type Reconcile struct {
	Schedule string `yaml:"schedule" env-default:"*/15 * * * *"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env-default:"localhost:8081"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowOrigins []string      `yaml:"allow_origins" env-default:"http://localhost:3000"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Can not read config file %s", err)
	}

	return &cfg
}
