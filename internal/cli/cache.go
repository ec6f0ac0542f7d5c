package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kumiko/pkg/cache"
	"github.com/matzehuels/kumiko/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artwork cache",
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
		Short: "Remove all cached artwork",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch cc := c.Config.Cache; cc.Backend {
			case config.CacheNone:
				printInfo("Caching is disabled")
				return nil
			case config.CacheRedis:
				rc, err := cache.NewRedisCache(cmd.Context(), cache.RedisConfig{URL: cc.RedisURL, Prefix: cc.Prefix})
				if err != nil {
					return err
				}
				defer rc.Close()
				n, err := rc.Clear(cmd.Context())
				if err != nil {
					return fmt.Errorf("clear redis cache: %w", err)
				}
				printSuccess("Cleared %d cached entries", n)
				return nil
			}

			fc, err := cache.NewFileCache(c.cacheDir())
			if err != nil {
				return err
			}
			n, _, err := fc.Usage()
			if err != nil {
				return fmt.Errorf("scan cache: %w", err)
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache.Backend != config.CacheFile {
				printWarning("cache backend is %q; the directory is unused", c.Config.Cache.Backend)
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheDir())
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache backend and usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.Config.Cache
			printKeyValue("Backend", cc.Backend)
			switch cc.Backend {
			case config.CacheRedis:
				printKeyValue("Prefix", prefixOrDefault(cc.Prefix))
			case config.CacheFile:
				fc, err := cache.NewFileCache(c.cacheDir())
				if err != nil {
					return err
				}
				n, size, err := fc.Usage()
				if err != nil {
					return fmt.Errorf("scan cache: %w", err)
				}
				printKeyValue("Directory", fc.Dir())
				printKeyValue("Entries", fmt.Sprint(n))
				printKeyValue("Size", formatBytes(int(size)))
			}
			return nil
		},
	}
}

func prefixOrDefault(p string) string {
	if p == "" {
		return cache.DefaultRedisPrefix
	}
	return p
}
