// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("analysis.eventinterval", 60)
	viper.SetDefault("analysis.lunarstepdays", 20)
	viper.SetDefault("analysis.lunarwindowdays", 5)
	viper.SetDefault("analysis.minspeciesimages", 25)
	viper.SetDefault("analysis.chisquarecutoff", 0.95)
	viper.SetDefault("analysis.topn", 10)
	viper.SetDefault("analysis.timezone", "Local")

	viper.SetDefault("report.sections", []string{})
	viper.SetDefault("report.parallelism", 4)

	viper.SetDefault("datastore.type", DatastoreSQLite)
	viper.SetDefault("datastore.sqlite.path", "sparcd.db")
	viper.SetDefault("datastore.mysql.username", "")
	viper.SetDefault("datastore.mysql.password", "")
	viper.SetDefault("datastore.mysql.database", "sparcd")
	viper.SetDefault("datastore.mysql.host", "localhost")
	viper.SetDefault("datastore.mysql.port", "3306")

	viper.SetDefault("logging.default_level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.file_output.enabled", false)
	viper.SetDefault("logging.file_output.path", "logs/sparcd.log")
	viper.SetDefault("logging.file_output.level", "debug")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.dsn", "")

	viper.SetDefault("metrics.file", "")
}
