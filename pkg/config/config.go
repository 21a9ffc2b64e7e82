package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"lastday/internal/log"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MQ       MQConfig       `mapstructure:"mq"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	GrpcPort int    `mapstructure:"grpc_port"`
	TickRate int    `mapstructure:"tick_rate"`
	ServerID string `mapstructure:"server_id"` // presence key suffix
}

type GameConfig struct {
	Map            string        `mapstructure:"map"`
	BotsActive     bool          `mapstructure:"bots_active"`
	BotCount       int           `mapstructure:"bot_count"`
	StrictSpectate bool          `mapstructure:"strict_spectate"`
	Seed           string        `mapstructure:"seed"`
	MaxRooms       int           `mapstructure:"max_rooms"`
	Bots           []BotTemplate `mapstructure:"bots"`
}

// BotTemplate is one kind of bot the spawner picks from.
type BotTemplate struct {
	Name        string    `mapstructure:"name"`
	Skin        string    `mapstructure:"skin"`
	Hammer      bool      `mapstructure:"hammer"`
	Gun         bool      `mapstructure:"gun"`
	Hook        bool      `mapstructure:"hook"`
	TeamDamage  bool      `mapstructure:"team_damage"`
	AttackProba int       `mapstructure:"attack_proba"`
	Drops       []BotDrop `mapstructure:"drops"`
}

type BotDrop struct {
	Item string `mapstructure:"item"`
	Num  int    `mapstructure:"num"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "mysql".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MQConfig struct {
	Url       string `mapstructure:"url"`
	QueueName string `mapstructure:"queue_name"`
}

type JWTConfig struct {
	Secret         string `mapstructure:"secret"`
	ExpireDuration string `mapstructure:"expire_duration"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var AppConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8303)
	v.SetDefault("server.grpc_port", 8304)
	v.SetDefault("server.tick_rate", 50)
	v.SetDefault("server.server_id", "lastday-1")
	v.SetDefault("game.bots_active", true)
	v.SetDefault("game.bot_count", 8)
	v.SetDefault("game.seed", "lastday")
	v.SetDefault("game.max_rooms", 16)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("mq.queue_name", "lastday.kills")
	v.SetDefault("jwt.expire_duration", "72h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the config file at path (or config.yaml in the working
// directory when empty) with LASTDAY_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("lastday")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// InitConfig loads config.yaml into AppConfig and exits on failure.
func InitConfig() {
	cfg, err := Load("")
	if err != nil {
		log.Fatal("config load failed", "error", err)
	}
	AppConfig = cfg
}
