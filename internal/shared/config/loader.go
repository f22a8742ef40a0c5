package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "COORDINATOR"

func load(configPath string) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	setDefaults(v.SetDefault)

	// COORDINATOR_HTTPSERVER_PORT 覆盖 httpserver.port
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", configPath, err)
	}
	c, err := decode(v)
	if err != nil {
		return err
	}
	store(c)

	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(v)
		if err != nil {
			// 坏配置不覆盖旧值
			log.Printf("配置文件变更解析失败, file=%s err=%v", e.Name, err)
			return
		}
		log.Printf("配置文件变更, file=%s", e.Name)
		store(next)
	})
	v.WatchConfig()
	return nil
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&c, hook); err != nil {
		return Config{}, fmt.Errorf("viper unmarshal config: %w", err)
	}
	return c, nil
}
