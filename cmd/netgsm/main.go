package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/netgsm-go/netgsm/internal/cliconfig"
	"github.com/netgsm-go/netgsm/pkg/log"
	"github.com/netgsm-go/netgsm/pkg/netgsm"
)

const longHelp = `Call the NetGSM REST API from the command line.

Requests go to {base-url}/api/{endpoint}. Query parameters are sorted and
encoded the same way the Go client does it, so "netgsm url" shows exactly
what will be sent.

Settings are read from $HOME/.netgsm/config.toml, then NETGSM_* environment
variables, then flags; each layer overrides the previous one.`

var exampleUsage = strings.TrimSpace(`
  netgsm get balance -p stip=2
  netgsm get sms/report -p 'filter[status]=1' -p page=1
  netgsm post sms/send -d @message.json
  netgsm url sms/report --params-json '{"filter":{"type":"2"}}'
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries state shared by the subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	logger  zerolog.Logger
	client  *netgsm.Client
}

func newRootCmd() *cobra.Command {
	c := &cli{
		cfg:    cliconfig.DefaultConfig(),
		logger: cliconfig.Logger(zerolog.InfoLevel),
	}

	root := &cobra.Command{
		Use:           "netgsm",
		Short:         "Call the NetGSM REST API",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.netgsm/config.toml)")
	pf.StringVar(&c.cfg.BaseURL, "base-url", c.cfg.BaseURL, "API base URL")
	pf.StringVar(&c.cfg.Usercode, "usercode", c.cfg.Usercode, "API usercode")
	pf.StringVar(&c.cfg.Password, "password", c.cfg.Password, "API password")
	pf.StringVar(&c.cfg.MsgHeader, "msgheader", c.cfg.MsgHeader, "approved message header")
	pf.StringVar(&c.cfg.Encoding, "encoding", c.cfg.Encoding, "response charset label (utf8, iso-8859-9, ...)")
	pf.DurationVar(&c.cfg.Timeout, "timeout", c.cfg.Timeout, "HTTP timeout")
	pf.BoolVar(&c.cfg.QueryStringAuth, "query-string-auth", c.cfg.QueryStringAuth, "send credentials as query parameters instead of basic auth")
	pf.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		newRequestCmd(c, "get", false),
		newRequestCmd(c, "post", true),
		newRequestCmd(c, "put", true),
		newRequestCmd(c, "delete", false),
		newURLCmd(c),
	)
	return root
}

// ensureClient layers file, environment and flags into c.cfg and builds the
// client. Only commands that talk to the API call it, so help and completion
// work without credentials.
func (c *cli) ensureClient(cmd *cobra.Command) error {
	if c.client != nil {
		return nil
	}

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	} else if c.cfgPath != "" {
		return fmt.Errorf("config file %s not found", c.cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	level, _ := c.cfg.Level()
	c.logger = cliconfig.Logger(level)
	c.logger.Debug().Interface("config", c.cfg.Masked()).Msg("configuration")

	client, err := netgsm.New(c.cfg.ClientConfig(), netgsm.WithLogger(log.NewZerolog(c.logger)))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	c.client = client
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		logger := cliconfig.Logger(zerolog.InfoLevel)
		logger.Error().Err(err).Msg("netgsm")
		stop()
		os.Exit(1)
	}
}
