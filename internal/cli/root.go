package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xcsign/internal/app"
	"xcsign/internal/core"
	"xcsign/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "XCSIGN"

type RootConfig struct {
	ConfigFile string
	EnvFile    string
	LogLevel   string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		logError(err)
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "xcsign",
		Short:         "Generate export options for Xcode archives",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile, cfg.EnvFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.EnvFile, "env-file", "", "Dotenv file loaded before reading the environment")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(newExportCommand())
	cmd.AddCommand(newTreeCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newInstallProfilesCommand())
	return cmd
}

func initConfig(configFile string, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read env file").
				WithCause(err)
		}
	} else {
		_ = godotenv.Load()
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	setInterpreterDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("xcsign")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/xcsign")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

// setInterpreterDefaults registers every interpreter key so environment
// overrides are seen by Unmarshal.
func setInterpreterDefaults() {
	defaults := core.DefaultInterpreterConfig()
	viper.SetDefault("interpreter.wrapper_commands", defaults.WrapperCommands)
	viper.SetDefault("interpreter.wrapper_project", defaults.WrapperProject)
	viper.SetDefault("interpreter.wrapper_scheme", defaults.WrapperScheme)
	viper.SetDefault("interpreter.wrapper_target", defaults.WrapperTarget)
	viper.SetDefault("interpreter.native_export_path", defaults.NativeExportPath)
	viper.SetDefault("interpreter.wrapper_export_path", defaults.WrapperExportPath)
}

type fileConfig struct {
	Interpreter core.InterpreterConfig `mapstructure:"interpreter"`
}

func interpreterConfig() (core.InterpreterConfig, error) {
	config := fileConfig{Interpreter: core.DefaultInterpreterConfig()}
	if err := viper.Unmarshal(&config); err != nil {
		return core.InterpreterConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid interpreter configuration").
			WithCause(err)
	}
	return config.Interpreter, nil
}

func newAppService() (app.Service, error) {
	service, err := app.NewService()
	if err != nil {
		return app.Service{}, err
	}
	config, err := interpreterConfig()
	if err != nil {
		return app.Service{}, err
	}
	service.Interpreter = config
	return service, nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	// Stages log through log.Ctx; contexts without a logger fall back here.
	zerolog.DefaultContextLogger = &log.Logger
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func logError(err error) {
	event := log.Error()
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) {
		if builder.Label != "" {
			event = event.Str("kind", builder.Label)
		}
		for _, name := range types.DetailNames(err) {
			value, _ := types.Detail(err, name)
			event = event.Str(name, value)
		}
		if _, named := types.KindOf(err); !named && builder.Cause != nil {
			event = event.AnErr("cause", builder.Cause)
		}
	} else {
		event = event.Err(err)
	}
	event.Msg(errorMessage(err))
}

func exitCodeForError(err error) int {
	if errors.Is(err, types.ErrCyclicDependency) {
		return 4
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition, errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
