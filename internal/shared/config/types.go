package config

import "time"

type Config struct {
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	GRPCServer GRPCServerConfig `yaml:"grpcserver" mapstructure:"grpcserver"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	SQLite     SQLiteConfig     `yaml:"sqlite" mapstructure:"sqlite"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	Session    SessionConfig    `yaml:"session" mapstructure:"session"`
	Selection  SelectionConfig  `yaml:"selection" mapstructure:"selection"`
	Seed       SeedConfig       `yaml:"seed" mapstructure:"seed"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

type HTTPServerConfig struct {
	Host         string   `yaml:"host" mapstructure:"host"`
	Port         int      `yaml:"port" mapstructure:"port"`
	NeedSecret   bool     `yaml:"need_secret" mapstructure:"need_secret"` // ws 帧是否 AES + gzip
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
}

type GRPCServerConfig struct {
	Enable bool   `yaml:"enable" mapstructure:"enable"`
	Host   string `yaml:"host" mapstructure:"host"`
	Port   int    `yaml:"port" mapstructure:"port"`
}

// StorageConfig.Driver: sqlite / mysql / mongodb / memory
type StorageConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type SessionConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
	IdleRelease   time.Duration `yaml:"idle_release" mapstructure:"idle_release"`
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
	NodeID        int64         `yaml:"node_id" mapstructure:"node_id"` // snowflake 节点号
}

type SelectionConfig struct {
	AskTimeout time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
}

type SeedConfig struct {
	URL string `yaml:"url" mapstructure:"url"` // afs 支持的 URL，空表示不导入
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

func setDefaults(set func(key string, value any)) {
	set("httpserver.host", "0.0.0.0")
	set("httpserver.port", 8088)
	set("httpserver.need_secret", false)
	set("httpserver.allow_origins", []string{"*"})
	set("grpcserver.enable", true)
	set("grpcserver.host", "0.0.0.0")
	set("grpcserver.port", 8089)
	set("storage.driver", "sqlite")
	set("sqlite.path", "./database/main.db")
	set("mysql.host", "127.0.0.1")
	set("mysql.port", 3306)
	set("mysql.charset", "utf8mb4")
	set("mysql.max_idle", 2)
	set("mysql.max_conn", 10)
	set("mongodb.database", "coordinator")
	set("mongodb.connect_timeout_s", 3)
	set("session.jwt_secret", "")
	set("session.token_ttl", 7*24*time.Hour)
	set("session.idle_release", 10*time.Minute)
	set("session.sweep_interval", time.Minute)
	set("session.node_id", 1)
	set("selection.ask_timeout", 3*time.Second)
	set("seed.url", "")
	set("log.level", "info")
	set("log.max_size", 100)
	set("log.max_backups", 5)
	set("log.max_age", 30)
}
