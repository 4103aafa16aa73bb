/*
Package config holds the node configuration. It is stored as TOML file in the
config directory of the node home.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/spf13/viper"

	"github.com/tokenfactory/issuer/logging"
	"github.com/tokenfactory/issuer/types"
)

const (
	configDir  = "config"
	configFile = "issuer.toml"
	dataDir    = "data"
)

type Config struct {
	// Home is the node home directory, not stored.
	Home string `toml:"-" mapstructure:"-"`

	// AddressPrefix is the bech32 human readable part of the account addresses.
	AddressPrefix string `toml:"address-prefix" mapstructure:"address-prefix"`
	// ContractLabel is used to derive the issuer contract address.
	ContractLabel string  `toml:"contract-label" mapstructure:"contract-label"`
	Logging       Logging `toml:"logging" mapstructure:"logging"`
	Storage       Storage `toml:"storage" mapstructure:"storage"`
}

type Logging struct {
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"`
}

type Storage struct {
	// InMemory keeps the state in memory only, mostly useful for testing.
	InMemory bool `toml:"in-memory" mapstructure:"in-memory"`
	// Dir is the badger database directory, relative paths are resolved
	// against the home directory.
	Dir string `toml:"dir" mapstructure:"dir"`
}

func Default(home string) *Config {
	return &Config{
		Home:          home,
		AddressPrefix: types.DefaultAddressPrefix,
		ContractLabel: "issuer",
		Logging: Logging{
			Level:  "info",
			Format: logging.FormatText,
		},
		Storage: Storage{
			Dir: dataDir,
		},
	}
}

func (c *Config) Validate() error {
	if c.AddressPrefix == "" {
		return errors.New("address prefix is required")
	}
	if c.ContractLabel == "" {
		return errors.New("contract label is required")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if !c.Storage.InMemory && c.Storage.Dir == "" {
		return errors.New("storage dir is required unless in-memory storage is used")
	}
	return nil
}

// ContractAddress returns the address of the issuer contract.
func (c *Config) ContractAddress() (types.Address, error) {
	return types.NewContractAddress(c.AddressPrefix, c.ContractLabel)
}

// StorageDir returns absolute path of the database directory.
func (c *Config) StorageDir() string {
	if filepath.IsAbs(c.Storage.Dir) {
		return c.Storage.Dir
	}
	return filepath.Join(c.Home, c.Storage.Dir)
}

// File returns path of the configuration file in the home directory.
func File(home string) string {
	return filepath.Join(home, configDir, configFile)
}

// Load reads configuration from the home directory. Missing keys keep their
// default values.
func Load(home string) (*Config, error) {
	return LoadFile(home, File(home))
}

func LoadFile(home, file string) (*Config, error) {
	c := Default(home)
	if err := load(filepath.Dir(file), file, c); err != nil {
		return nil, err
	}
	c.Home = home
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", file, err)
	}
	return c, nil
}

// Store writes the configuration file into the home directory.
func Store(c *Config) error {
	file := File(c.Home)
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	return f.Close()
}

func load(dir, file string, c interface{}) error {
	v := viper.New()
	v.SetConfigFile(file)
	v.AddConfigPath(dir)
	err := v.ReadInConfig()
	if err != nil {
		return err
	}

	return v.Unmarshal(c)
}
