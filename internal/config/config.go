package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultLogLevel 默认日志级别
	DefaultLogLevel = "info"

	appDirName     = "music-search"
	configFileName = "config.toml"
)

// TomlConfig TOML配置文件结构
type TomlConfig struct {
	App struct {
		LogLevel string `toml:"log_level"`
	} `toml:"app"`

	NetEase struct {
		Cookie string `toml:"cookie"`
	} `toml:"netease"`

	QQMusic struct {
		Cookie string `toml:"cookie"`
	} `toml:"qqmusic"`
}

// AppConfig 应用配置
type AppConfig struct {
	LogLevel string
}

// VendorConfig 单个服务商的配置，cookie 选填
type VendorConfig struct {
	Cookie string
}

// Config 主配置结构
type Config struct {
	App     AppConfig
	NetEase VendorConfig
	QQMusic VendorConfig
}

// getConfigPath 获取配置文件路径
func getConfigPath() string {
	// 优先使用 XDG_CONFIG_HOME 环境变量
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appDirName, configFileName)
	}

	// 否则使用用户主目录下的 .config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Printf("WARN: Cannot get user home directory: %v", err)
		return configFileName // 回退到当前目录
	}

	return filepath.Join(homeDir, ".config", appDirName, configFileName)
}

// loadTomlConfig 加载TOML配置文件
func loadTomlConfig() (*TomlConfig, error) {
	configPath := getConfigPath()

	// 配置文件不存在时不是错误，全部用默认值
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Printf("INFO: Config file not found at %s, using defaults", configPath)
		return &TomlConfig{}, nil
	}

	var config TomlConfig
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, err
	}

	log.Printf("INFO: Loaded config from %s", configPath)
	return &config, nil
}

// Load 读取配置，出错时退回默认值
func Load() *Config {
	tomlConfig, err := loadTomlConfig()
	if err != nil {
		log.Printf("ERROR: Failed to load config file: %v", err)
		log.Printf("INFO: Using default configuration")
		tomlConfig = &TomlConfig{}
	}

	config := &Config{
		App: AppConfig{
			LogLevel: DefaultLogLevel,
		},
	}

	if tomlConfig.App.LogLevel != "" {
		config.App.LogLevel = tomlConfig.App.LogLevel
	}
	config.NetEase.Cookie = tomlConfig.NetEase.Cookie
	config.QQMusic.Cookie = tomlConfig.QQMusic.Cookie

	return config
}
