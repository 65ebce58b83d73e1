package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/segmentation-fault/forum/internal/pkg/config"
)

type configLoader func(ctx context.Context) (*config.ClientConfig, error)

// cli owns the app shared by every subcommand of one invocation.
type cli struct {
	out  io.Writer
	load configLoader
	app  *app

	apiURL   string
	logLevel string
}

func newRootCmd(out io.Writer, load configLoader) *cobra.Command {
	c := &cli{out: out, load: load}

	root := &cobra.Command{
		Use:           "segfault",
		Short:         "Terminal client for the Segmentation Fault forum",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd.Context())
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", "", "API base URL (overrides SEGFAULT_API_URL)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.signUpCmd(),
		c.verifyCmd(),
		c.forgotCmd(),
		c.resetCmd(),
		c.postsCmd(),
		c.commentsCmd(),
		c.usersCmd(),
		c.voteCmd(),
	)
	return root
}

func (c *cli) init(ctx context.Context) error {
	cfg, err := c.load(ctx)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.APIURL = c.apiURL
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	a, err := newApp(cfg, c.out)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

var errMissingFlag = errors.New("missing required value")

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: --%s", errMissingFlag, name)
	}
	return nil
}
