package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

// DefaultConfPath is read when neither CONFIG env nor --config is given
const DefaultConfPath = "rdbkv.conf"

// Properties holds global config properties
var Properties *ServerProperties

// ServerProperties defines global config properties
type ServerProperties struct {
	Dir         string `cfg:"dir"`
	DBFilename  string `cfg:"dbfilename"`
	MaxFileSize int    `cfg:"maxfilesize"` // bytes, 0 means unlimited
	ShowExpired bool   `cfg:"show-expired"`

	LogDir   string `cfg:"logdir"`
	LogName  string `cfg:"logname"`
	LogLevel string `cfg:"loglevel"`

	// config file path
	CfPath string `cfg:"cf,omitempty"`
}

// Defaults returns the properties used when no config file exists
func Defaults() *ServerProperties {
	return &ServerProperties{
		Dir:         ".",
		DBFilename:  "dump.rdb",
		MaxFileSize: 512 << 20,
		LogName:     "rdbkv",
		LogLevel:    "info",
	}
}

func init() {
	// default config
	Properties = Defaults()
}

// RDBPath returns the snapshot file location
func (p *ServerProperties) RDBPath() string {
	return filepath.Join(p.Dir, p.DBFilename)
}

func parse(src io.Reader) (*ServerProperties, error) {
	config := Defaults()

	// read config file
	rawMap := make(map[string]string)
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > 0 && line[0] == '#' {
			continue
		}
		pivot := strings.IndexAny(line, " ")
		if pivot > 0 && pivot < len(line)-1 { // separator found
			key := line[0:pivot]
			value := strings.Trim(line[pivot+1:], " ")
			rawMap[strings.ToLower(key)] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	// parse format
	t := reflect.TypeOf(config)
	v := reflect.ValueOf(config)
	n := t.Elem().NumField()
	for i := 0; i < n; i++ {
		field := t.Elem().Field(i)
		fieldVal := v.Elem().Field(i)
		key, ok := field.Tag.Lookup("cfg")
		if !ok || strings.TrimSpace(key) == "" {
			key = field.Name
		} else {
			key = strings.Split(key, ",")[0]
		}
		value, ok := rawMap[strings.ToLower(key)]
		if !ok {
			continue
		}
		// fill config
		switch field.Type.Kind() {
		case reflect.String:
			fieldVal.SetString(value)
		case reflect.Int:
			intValue, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %q is not an integer", key, value)
			}
			fieldVal.SetInt(intValue)
		case reflect.Bool:
			fieldVal.SetBool(toBool(value))
		}
	}
	return config, nil
}

// Load reads a config file, unset properties keep their defaults
func Load(configFilename string) (*ServerProperties, error) {
	file, err := os.Open(configFilename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	p, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s failed: %w", configFilename, err)
	}
	if abs, err := filepath.Abs(configFilename); err == nil {
		p.CfPath = abs
	}
	return p, nil
}

// Setup read config file and store properties into Properties.
// An empty filename falls back to CONFIG env, then to DefaultConfPath if it exists.
func Setup(configFilename string) error {
	if configFilename == "" {
		configFilename = os.Getenv("CONFIG")
	}
	if configFilename == "" {
		if !defaultConfigFileExists() {
			Properties = Defaults()
			return nil
		}
		configFilename = DefaultConfPath
	}
	p, err := Load(configFilename)
	if err != nil {
		return err
	}
	Properties = p
	return nil
}

func defaultConfigFileExists() bool {
	info, err := os.Stat(DefaultConfPath)
	return err == nil && !info.IsDir()
}

func toBool(s string) bool {
	ls := strings.ToLower(s)
	switch ls {
	case "true", "yes", "t", "y":
		return true
	default:
		return false
	}
}
