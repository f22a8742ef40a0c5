package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

const defaultConfigRelPath = "configs/conf.yml"

var (
	mu        sync.RWMutex
	conf      Config
	listeners []func(Config)
)

// Load 加载配置：
// 1) cfgPath 非空（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgPath string) error {
	path, err := resolve(cfgPath)
	if err != nil {
		return err
	}
	return load(path)
}

// Current 返回当前配置的副本，热更新后读到的是新值。
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return conf
}

// OnChange 注册配置变更回调，在文件变更并成功解析后调用。
func OnChange(fn func(Config)) {
	if fn == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, fn)
}

func store(c Config) {
	mu.Lock()
	conf = c
	fns := make([]func(Config), len(listeners))
	copy(fns, listeners)
	mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

func resolve(cfgPath string) (string, error) {
	if cfgPath != "" {
		if filepath.IsAbs(cfgPath) {
			return cfgPath, nil
		}
		curDir, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(curDir, cfgPath), nil
	}
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("config file not exist, searched configs/conf.yml from: " + startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
