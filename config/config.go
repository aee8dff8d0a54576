package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"8888"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"wellcheck"`

	// PostgreSQL 配置
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"wellcheck"`
	PostgreSQLSchema   string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"30"`
	PostgreSQLMaxOpen  int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"200"`

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"wc"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// JWT 配置
	JWTSecret        string `env:"JWT_SECRET"`
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"30"`
	JWTRefreshDays   int    `env:"JWT_REFRESH_DAYS" envDefault:"7"`

	// 短信服务配置
	// AccessKey 通过阿里云 SDK 的环境变量自动获取:
	// ALIBABA_CLOUD_ACCESS_KEY_ID / ALIBABA_CLOUD_ACCESS_KEY_SECRET
	SMSProvider     string `env:"SMS_PROVIDER" envDefault:"aliyun"`
	SMSSignName     string `env:"SMS_SIGN_NAME"`
	SMSTemplateCode string `env:"SMS_TEMPLATE_CODE"`

	// 是否真正把短信交给运营商发送。显式配置，不在调用点判断环境
	SMSTransportEnabled bool `env:"SMS_TRANSPORT_ENABLED" envDefault:"false"`
	// 发送时补全的国家码前缀，入站回复时剥掉同一前缀
	SMSCountryPrefix string `env:"SMS_COUNTRY_PREFIX" envDefault:"+1"`

	// 邮件服务配置（每日汇总邮件）
	SendGridAPIKey   string `env:"SENDGRID_API_KEY"`
	SummaryEmailFrom string `env:"SUMMARY_EMAIL_FROM" envDefault:"noreply@wellcheck.app"`

	// 调度配置
	DispatchIntervalSeconds int `env:"DISPATCH_INTERVAL_SECONDS" envDefault:"60"`
	DispatchCycleTimeoutSec int `env:"DISPATCH_CYCLE_TIMEOUT_SECONDS" envDefault:"300"`

	// 密码散列盐值
	PasswordHashSalt string `env:"PASSWORD_HASH_SALT"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// OpenTelemetry 配置，OTLP_ENDPOINT 为空时不上报
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:""`
	ServiceVersion  string  `env:"SERVICE_VERSION" envDefault:"dev"`
	OTelSampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"0.1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 速率限制配置, 配置在中间件内
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"100"` // 每秒请求数
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	// 生产环境缺密钥直接拒绝启动，开发和测试给个可用的默认值
	if Cfg.JWTSecret == "" {
		if Cfg.IsProduction() {
			log.Fatal("JWT_SECRET is required")
		}
		log.Printf("WARN: JWT_SECRET is not set, using insecure development default")
		Cfg.JWTSecret = "dev-insecure-jwt-secret"
	}

	if Cfg.PasswordHashSalt == "" {
		if Cfg.IsProduction() {
			log.Fatal("PASSWORD_HASH_SALT is required")
		}
		log.Printf("WARN: PASSWORD_HASH_SALT is not set, using insecure development default")
		Cfg.PasswordHashSalt = "dev-insecure-salt"
	}

	if Cfg.SMSTransportEnabled && Cfg.SMSSignName == "" {
		log.Fatal("SMS_SIGN_NAME is required when SMS_TRANSPORT_ENABLED=true")
	}

	if Cfg.SMSTransportEnabled && Cfg.SMSTemplateCode == "" {
		log.Fatal("SMS_TEMPLATE_CODE is required when SMS_TRANSPORT_ENABLED=true")
	}

	if Cfg.SendGridAPIKey == "" {
		log.Printf("WARN: SENDGRID_API_KEY is not set, daily summary emails will not be delivered")
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" +
		c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}
