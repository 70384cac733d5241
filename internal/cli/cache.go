package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rshade/lectern/internal/cache"
	"github.com/rshade/lectern/internal/config"
)

// cacheInfo is the machine-readable form of cache info.
type cacheInfo struct {
	Enabled    bool   `json:"enabled"     yaml:"enabled"`
	Directory  string `json:"directory"   yaml:"directory"`
	Entries    int    `json:"entries"     yaml:"entries"`
	TotalBytes int64  `json:"total_bytes" yaml:"total_bytes"`
	TTL        string `json:"ttl"         yaml:"ttl"`
}

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Offline cache commands"}
	cmd.AddCommand(newCacheInfoCmd(), newCacheClearCmd(), newCachePruneCmd())
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the offline cache location and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveFormat(cmd)
			if err != nil {
				return err
			}
			cfg := config.GetGlobalConfig()
			files, err := openFileCache(cfg)
			if err != nil {
				return err
			}

			info := cacheInfo{
				Enabled:   files.IsEnabled(),
				Directory: files.Directory(),
				TTL:       cache.FormatDuration(time.Duration(cfg.Cache.TTLSeconds) * time.Second),
			}
			if files.IsEnabled() {
				stats, statsErr := files.Stats()
				if statsErr != nil {
					return fmt.Errorf("reading cache: %w", statsErr)
				}
				info.Entries = stats.Entries
				info.TotalBytes = stats.TotalBytes
			}

			return renderObject(cmd.OutOrStdout(), format, info, func(w io.Writer) error {
				state := "enabled"
				if !info.Enabled {
					state = "disabled"
				}
				_, err := fmt.Fprintln(w, renderDetail("Offline cache",
					field{"State", state},
					field{"Directory", info.Directory},
					field{"Entries", humanize.Comma(int64(info.Entries))},
					field{"Size", humanize.Bytes(uint64(info.TotalBytes))},
					field{"TTL", info.TTL},
				))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json, ndjson or yaml")
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnabledCache(cmd, "Removed %d cached responses.\n", (*cache.FileStore).Clear)
		},
	}
}

func newCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete expired cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnabledCache(cmd, "Removed %d expired responses.\n", (*cache.FileStore).CleanupExpired)
		},
	}
}

// withEnabledCache runs op on the configured cache and reports the count it returns.
func withEnabledCache(cmd *cobra.Command, msg string, op func(*cache.FileStore) (int, error)) error {
	files, err := openFileCache(config.GetGlobalConfig())
	if err != nil {
		return err
	}
	n, err := op(files)
	if errors.Is(err, cache.ErrCacheDisabled) {
		cmd.Println("Offline cache is disabled.")
		return nil
	}
	if err != nil {
		return err
	}
	cmd.Printf(msg, n)
	return nil
}
