package config

import "time"

type AppConfig struct {
	ListenAddr string        `yaml:"listen_addr" env:"OPSRADAR_LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	DBPath     string        `yaml:"db_path" env:"OPSRADAR_DB_PATH" env-default:"data/opsradar.db"`
	AppEnv     string        `yaml:"app_env" env:"OPSRADAR_APP_ENV"`
	Ingest     IngestConfig  `yaml:"ingest"`
	Dashboard  DashConfig    `yaml:"dashboard"`
	Retention  RetainConfig  `yaml:"retention"`
	Logging    LoggingConfig `yaml:"logging"`
}

type IngestConfig struct {
	// UploadMaxBytes bounds one uploaded spreadsheet.
	UploadMaxBytes int64 `yaml:"upload_max_bytes" env:"OPSRADAR_INGEST_UPLOAD_MAX_BYTES" env-default:"52428800"`
}

type DashConfig struct {
	// TopGroups caps breakdown tables; 0 disables the cap.
	TopGroups int `yaml:"top_groups" env:"OPSRADAR_DASHBOARD_TOP_GROUPS" env-default:"20"`
	// OutOfRuleAge is the inactivity window after which an open incident
	// is flagged.
	OutOfRuleAge time.Duration `yaml:"out_of_rule_age" env:"OPSRADAR_DASHBOARD_OUT_OF_RULE_AGE" env-default:"48h"`
	// ViewCacheSize is the number of filtered views kept per dataset
	// version; 0 disables the cache.
	ViewCacheSize int `yaml:"view_cache_size" env:"OPSRADAR_DASHBOARD_VIEW_CACHE_SIZE" env-default:"64"`
}

type RetainConfig struct {
	Enabled  bool          `yaml:"enabled" env:"OPSRADAR_RETENTION_ENABLED" env-default:"true"`
	Schedule string        `yaml:"schedule" env:"OPSRADAR_RETENTION_SCHEDULE" env-default:"0 3 * * *"`
	MaxAge   time.Duration `yaml:"max_age" env:"OPSRADAR_RETENTION_MAX_AGE" env-default:"2160h"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" env:"OPSRADAR_LOG_LEVEL" env-default:"info"`
	File       string `yaml:"file" env:"OPSRADAR_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"OPSRADAR_LOG_MAX_SIZE_MB" env-default:"50"`
	MaxBackups int    `yaml:"max_backups" env:"OPSRADAR_LOG_MAX_BACKUPS" env-default:"5"`
	MaxAgeDays int    `yaml:"max_age_days" env:"OPSRADAR_LOG_MAX_AGE_DAYS" env-default:"30"`
	Console    bool   `yaml:"console" env:"OPSRADAR_LOG_CONSOLE" env-default:"true"`
}
