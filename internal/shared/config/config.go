package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
	"proxyist/internal/shared/types"
)

// LoadIni 在 cfg 现有值的基础上加载 proxyist.ini, 然后应用环境变量覆盖。
func LoadIni(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil {
		return err
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return err
	}
	ApplyEnv(cfg)
	return nil
}

// LoadOrDefault 返回默认配置, 并在文件存在时用它覆盖。
// 文件不存在不视为错误。
func LoadOrDefault(fileName string) (*types.Config, error) {
	cfg := types.DefaultConfig()
	if fileName == "" {
		ApplyEnv(cfg)
		return cfg, nil
	}
	if _, err := os.Stat(fileName); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ApplyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := LoadIni(cfg, fileName); err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", fileName, err)
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment if one exists.
// Variables already set in the environment win.
func LoadDotEnv(fileNames ...string) error {
	if len(fileNames) == 0 {
		fileNames = []string{".env"}
	}
	existing := make([]string, 0, len(fileNames))
	for _, f := range fileNames {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv 用 PROXYIST_* 环境变量覆盖配置。
func ApplyEnv(cfg *types.Config) {
	overrideFromEnvString(&cfg.LogConf.Level, "PROXYIST_LOG_LEVEL")
	overrideFromEnvString(&cfg.SourceConf.URL, "PROXYIST_SOURCE_URL")
	overrideFromEnvString(&cfg.SourceConf.Engine, "PROXYIST_ENGINE")
	overrideFromEnvInt(&cfg.SourceConf.TimeoutSeconds, "PROXYIST_TIMEOUT_SECONDS")
	overrideFromEnvInt(&cfg.WebConf.Port, "PROXYIST_WEB_PORT")
}

func overrideFromEnvString(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}
