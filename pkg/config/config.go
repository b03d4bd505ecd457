package config

import (
	"github.com/spf13/viper"

	"github.com/latedeployment/roea-sensor/pkg/exporters"
)

const NodeNameEnvVar = "NODE_NAME"

type Config struct {
	Exporters                exporters.ExportersConfig `mapstructure:"exporters"`
	BPFObjectPath            string                    `mapstructure:"bpfObjectPath"`
	NodeName                 string                    `mapstructure:"nodeName"`
	EventQueueSize           int                       `mapstructure:"eventQueueSize"`
	EnableProcessEvents      bool                      `mapstructure:"processEventsEnabled"`
	EnableNetworkEvents      bool                      `mapstructure:"networkEventsEnabled"`
	EnableFileEvents         bool                      `mapstructure:"fileEventsEnabled"`
	EnablePrometheusExporter bool                      `mapstructure:"prometheusExporterEnabled"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("processEventsEnabled", true)
	viper.SetDefault("networkEventsEnabled", true)
	viper.SetDefault("fileEventsEnabled", true)
	viper.SetDefault("eventQueueSize", 4096)
	viper.SetDefault("nodeName", viper.GetString(NodeNameEnvVar))

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return Config{}, err
	}

	var config Config
	err = viper.Unmarshal(&config)
	return config, err
}
