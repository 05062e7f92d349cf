package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	toml "github.com/pelletier/go-toml/v2"

	"tasktable/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	appName               = "tasktable"
)

type Keymap struct {
	Quit         string `toml:"quit"`
	Add          string `toml:"add"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	Toggle       string `toml:"toggle"`
	PriorityUp   string `toml:"priority_up"`
	PriorityDown string `toml:"priority_down"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
	NextField    string `toml:"next_field"`
	PrevField    string `toml:"prev_field"`
}

type Config struct {
	// Timezone is an IANA name; empty means the system zone.
	Timezone string      `toml:"timezone" env:"TASKTABLE_TIMEZONE"`
	LogLevel string      `toml:"log_level" env:"TASKTABLE_LOG_LEVEL"`
	LogFile  string      `toml:"log_file" env:"TASKTABLE_LOG_FILE"`
	Keys     Keymap      `toml:"keys"`
	Tasks    []task.Seed `toml:"tasks"`
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/tasktable/config.toml, falling
// back to the working directory when no config dir is known.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist. Environment variables override file values.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, applyEnv(&cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	// Once the file exists, it alone decides the seed list.
	loaded := cfg
	loaded.Tasks = nil
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	loaded.Keys = fillKeys(loaded.Keys, cfg.Keys)
	if err := applyEnv(&loaded); err != nil {
		return cfg, err
	}
	return loaded, nil
}

func applyEnv(cfg *Config) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read env: %w", err)
	}
	return nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SeedTasks validates the configured seed list.
func (c Config) SeedTasks(loc *time.Location) ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(c.Tasks))
	for i, s := range c.Tasks {
		t, err := task.FromSeed(s, loc)
		if err != nil {
			return nil, fmt.Errorf("seed task %d: %w", i+1, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Keys:     defaultKeys(),
		Tasks: []task.Seed{
			{Description: "set up shopify account", Category: "Setup", Deadline: "2024-03-26", Priority: "Medium"},
			{Description: "build home page", Category: "Design", Deadline: "2024-03-27", Priority: "High", Done: true},
			{Description: "purchase domain name", Category: "Setup", Deadline: "2024-03-25", Priority: "Low"},
		},
	}
}

func defaultKeys() Keymap {
	return Keymap{
		Quit:         "q",
		Add:          "a",
		Up:           "k",
		Down:         "j",
		Toggle:       " ",
		PriorityUp:   "+",
		PriorityDown: "-",
		Confirm:      "enter",
		Cancel:       "esc",
		NextField:    "tab",
		PrevField:    "shift+tab",
	}
}

func fillKeys(k, def Keymap) Keymap {
	pairs := []struct {
		dst *string
		def string
	}{
		{&k.Quit, def.Quit},
		{&k.Add, def.Add},
		{&k.Up, def.Up},
		{&k.Down, def.Down},
		{&k.Toggle, def.Toggle},
		{&k.PriorityUp, def.PriorityUp},
		{&k.PriorityDown, def.PriorityDown},
		{&k.Confirm, def.Confirm},
		{&k.Cancel, def.Cancel},
		{&k.NextField, def.NextField},
		{&k.PrevField, def.PrevField},
	}
	for _, p := range pairs {
		if *p.dst == "" {
			*p.dst = p.def
		}
	}
	return k
}
