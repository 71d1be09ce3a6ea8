package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	RedisHost string
	RedisPort string

	KafkaBroker  string
	HandoffTopic string
	HandoffGroup string

	// HandoffDestination is the fixed phone number every order summary is sent to.
	HandoffDestination string

	SessionTTL    time.Duration
	CartMirrorTTL time.Duration
	InboxSize     int64

	StorefrontSvcURL string
	HandoffSvcURL    string
}

// Load reads the environment, optionally seeded from a .env file in the
// working directory. Variables already set in the process win over the file.
func Load(defaultAddr string) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("failed to load .env file")
	}

	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", defaultAddr),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "pizzeria"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		KafkaBroker:  getEnv("KAFKA_BROKER", "localhost:9092"),
		HandoffTopic: getEnv("HANDOFF_TOPIC", "order-handoffs"),
		HandoffGroup: getEnv("HANDOFF_GROUP", "handoff-svc"),

		HandoffDestination: getEnv("HANDOFF_DESTINATION", "5511999999999"),

		SessionTTL:    getDuration("SESSION_TTL", 2*time.Hour),
		CartMirrorTTL: getDuration("CART_MIRROR_TTL", 24*time.Hour),
		InboxSize:     int64(getInt("HANDOFF_INBOX_SIZE", 100)),

		StorefrontSvcURL: getEnv("STOREFRONT_SVC_URL", "http://localhost:8081"),
		HandoffSvcURL:    getEnv("HANDOFF_SVC_URL", "http://localhost:8082"),
	}
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func MustInitPostgres(cfg Config) *sql.DB {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to Redis")
	}

	return client
}

func NewKafkaReader(cfg Config, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(cfg Config, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBroker),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("invalid duration, using default")
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("invalid integer, using default")
		return defaultValue
	}
	return n
}
