// Package xferctl 实现 xferctl 命令行
//
// calc 子命令只做本地计算，其他子命令通过 HTTP 调用 xfer 服务
package xferctl

import (
	"context"
	"errors"
	"fmt"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DefaultServer 默认的服务地址
const DefaultServer = "http://127.0.0.1:7777"

type options struct {
	cfgFile string
	verbose bool
	v       *viper.Viper
}

// server 返回服务地址，优先级：命令行 > 环境变量 XFERCTL_SERVER > 配置文件 > 默认值
func (o *options) server() string {
	return o.v.GetString("server")
}

// NewRootCommand 创建根命令
func NewRootCommand() *cobra.Command {
	opts := &options{v: viper.New()}

	root := &cobra.Command{
		Use:           "xferctl",
		Short:         "Track the progress of a snapshot transfer",
		Long:          `xferctl estimates completion percent, ETA and transfer rate of a snapshot copy, either offline or against a running xfer server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.initConfig(cmd); err != nil {
				return err
			}

			level := zerolog.InfoLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).With().Timestamp().Logger()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logger.WithContext(ctx))
			logger.Debug().Str("server", opts.server()).Str("config", opts.v.ConfigFileUsed()).Msg("Config loaded")
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.xferctl.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Increase verbosity")
	root.PersistentFlags().String("server", DefaultServer, "xfer server address")
	_ = opts.v.BindPFlag("server", root.PersistentFlags().Lookup("server"))

	root.AddCommand(
		newCalcCommand(),
		newProgressCommand(opts),
		newFreeCommand(opts),
		newJobCommand(opts),
	)
	return root
}

// initConfig 读取配置文件和环境变量
func (o *options) initConfig(cmd *cobra.Command) error {
	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}
		o.v.AddConfigPath(home)
		o.v.SetConfigName(".xferctl")
		o.v.SetConfigType("yaml")
	}

	o.v.SetEnvPrefix("XFERCTL")
	o.v.AutomaticEnv()

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// 默认路径下没有配置文件不是错误
		if o.cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Execute 执行根命令
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
