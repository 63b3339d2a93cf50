package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/viper"
)

const envVarsPrefix = "/portalmunicipal/prod/"

type Config struct {
	Env      string `mapstructure:"GO_ENV"`
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	BodyLimit   string `mapstructure:"BODY_LIMIT"`

	DBDriver string `mapstructure:"DB_DRIVER"`
	DBDSN    string `mapstructure:"DB_DSN"`

	JWTSecret  string `mapstructure:"JWT_SECRET"`
	JWTJWKSURL string `mapstructure:"JWT_JWKS_URL"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	StorageDir    string `mapstructure:"STORAGE_DIR"`
	S3Bucket      string `mapstructure:"S3_BUCKET_NAME"`
	S3Region      string `mapstructure:"AWS_S3_REGION"`

	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`
	CacheTTLSeconds int    `mapstructure:"CACHE_TTL_SECONDS"`

	NewsPublisherSchedule string `mapstructure:"NEWS_PUBLISHER_SCHEDULE"`
	NodeID                int64  `mapstructure:"NODE_ID"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AllowedOrigins splits CORS_ORIGINS, an empty value allows every origin.
func (c *Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.CORSOrigins) == "" {
		return []string{"*"}
	}

	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

var defaults = map[string]any{
	"GO_ENV":                  "development",
	"PORT":                    "7070",
	"LOG_LEVEL":               "INFO",
	"CORS_ORIGINS":            "",
	"BODY_LIMIT":              "30M",
	"DB_DRIVER":               "sqlite",
	"DB_DSN":                  "database.db",
	"JWT_SECRET":              "",
	"JWT_JWKS_URL":            "",
	"STORAGE_DRIVER":          "disk",
	"STORAGE_DIR":             "uploads",
	"S3_BUCKET_NAME":          "",
	"AWS_S3_REGION":           "us-east-2",
	"REDIS_ADDR":              "",
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
	"CACHE_TTL_SECONDS":       300,
	"NEWS_PUBLISHER_SCHEDULE": "@every 1m",
	"NODE_ID":                 1,
}

// LoadEnv exports the environment the process will read its Config from:
// AWS SSM Parameter Store in production, a local .env file otherwise.
func LoadEnv() {
	if os.Getenv("GO_ENV") == "production" {
		loadProdEnv()
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}
}

// Load reads the Config from environment variables, every key has a default.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return errors.New("DB_DRIVER must be 'sqlite' or 'postgres'")
	}

	switch c.StorageDriver {
	case "disk":
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET_NAME is required when STORAGE_DRIVER=s3")
		}
	default:
		return errors.New("STORAGE_DRIVER must be 'disk' or 's3'")
	}

	if c.JWTSecret == "" && c.JWTJWKSURL == "" {
		return errors.New("either JWT_SECRET or JWT_JWKS_URL must be set")
	}
	return nil
}

func loadProdEnv() {
	ctx := context.Background()
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := ssm.NewFromConfig(cfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	prefixLength := len(envVarsPrefix)
	loaded := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			log.Fatalf("unable to load prod environment, %v", err)
		}

		// Export vars
		for _, param := range out.Parameters {
			key := (*param.Name)[prefixLength:]
			if enverr := os.Setenv(key, *param.Value); enverr != nil {
				log.Fatalf("unable to set environment variable, %v", enverr)
			}
			loaded++
		}
	}
	log.Debugf("loaded %d prod environment variables", loaded)
}
