package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/callsurface/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered-run cache",
		Long: `Manage the rendered-run cache.

Played scenarios are cached by the hash of the script and the options that
change its frames. The backend is chosen in the config file: file (default),
redis, mongo or none.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached run from the file cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Cache
			if opts.Backend != cache.BackendFile {
				printWarning("Entries in the %s cache expire on their own; only the file cache can be cleared", opts.Backend)
				return nil
			}
			if _, err := os.Stat(opts.Dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(opts.Dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			n, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", opts.Dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached runs are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(c.Config.Cache))
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the configured cache backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Cache
			printKeyValue("Backend", opts.Backend)
			printKeyValue("Location", cacheLocation(opts))
			if opts.Prefix != "" {
				printKeyValue("Key prefix", opts.Prefix)
			}
			printKeyValue("Entry lifetime", cache.TTLArtifact.String())
			return nil
		},
	}
}

// cacheLocation describes where a backend keeps its entries.
func cacheLocation(opts cache.Options) string {
	switch opts.Backend {
	case cache.BackendRedis:
		return fmt.Sprintf("redis://%s/%d", opts.Redis.Addr, opts.Redis.DB)
	case cache.BackendMongo:
		coll := opts.Mongo.Collection
		if coll == "" {
			coll = cache.DefaultMongoCollection
		}
		return strings.TrimSuffix(opts.Mongo.URI, "/") + "/" + opts.Mongo.Database + "." + coll
	case cache.BackendNone:
		return "(disabled)"
	}
	return opts.Dir
}
