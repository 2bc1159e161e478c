package bench

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cosmos/bst-bench/core"
	"github.com/cosmos/bst-bench/core/metrics"
)

type treeFlags struct {
	backend      string
	validate     bool
	hashInterval int64
}

func (f *treeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "backend", core.BackendBST,
		fmt.Sprintf("tree implementation to drive (%s)", strings.Join(core.Backends(), "|")))
	cmd.Flags().BoolVar(&f.validate, "validate", false, "check tree invariants after every version")
	cmd.Flags().Int64Var(&f.hashInterval, "hash-interval", 1, "write a version digest to the hash log every n versions")
}

// treeContext builds a TreeContext whose metrics are registered on the
// root registry and whose hash log lives in the index directory.
func (f *treeFlags) treeContext(cmd *cobra.Command, root *core.Root, name string) (*core.TreeContext, io.Closer, error) {
	if err := os.MkdirAll(root.IndexDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("error creating index dir: %w", err)
	}
	hashLogPath := filepath.Join(root.IndexDir, fmt.Sprintf("%s-%s.hashlog", name, f.backend))
	hashLog, err := os.Create(hashLogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating hash log: %w", err)
	}

	ctx := &core.TreeContext{
		Context:      cmd.Context(),
		Log:          core.Logger.With().Str("bench", name).Str("backend", f.backend).Logger(),
		IndexDir:     root.IndexDir,
		HashInterval: f.hashInterval,
		ValidateEach: f.validate,
		HashLog:      hashLog,
	}
	ctx.RegisterMetrics(root.Registry, prometheus.Labels{"backend": f.backend, "bench": name})
	ctx.Log.Info().Str("hash_log", hashLogPath).Msg("writing version digests")
	return ctx, hashLog, nil
}

// withCollector runs fn while the in-process metrics collector samples,
// then logs the collected summary.
func withCollector(ctx context.Context, log zerolog.Logger, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		metrics.Default.Run(ctx)
		close(done)
	}()
	err := fn()
	cancel()
	<-done
	if summary := metrics.Default.Print(); summary != "" {
		log.Info().Msgf("metrics:\n%s", summary)
	}
	return err
}

// TreeCommand builds trees from a generator profile in memory, without
// going through changeset files.
func TreeCommand(root *core.Root) *cobra.Command {
	var (
		flags    treeFlags
		profile  string
		seed     uint64
		versions int64
		limit    int64
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Build trees from a generated workload and report the final digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gens, err := core.ProfileGenerators(profile, seed, versions)
			if err != nil {
				return err
			}
			ctx, closer, err := flags.treeContext(cmd, root, profile)
			if err != nil {
				return err
			}
			defer closer.Close()
			ctx.Generators = gens
			ctx.VersionLimit = limit

			var storeKeys []string
			for _, gen := range gens {
				storeKeys = append(storeKeys, gen.StoreKey)
			}
			multiTree, err := core.NewMultiTreeWithBackend(flags.backend, storeKeys...)
			if err != nil {
				return err
			}

			var hash []byte
			err = withCollector(cmd.Context(), ctx.Log, func() error {
				hash, err = ctx.BuildTrees(multiTree)
				return err
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%x\n", hash)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&profile, "profile", "small", profileHelp())
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the workload generators")
	cmd.Flags().Int64Var(&versions, "versions", 100, "number of versions to generate")
	cmd.Flags().Int64Var(&limit, "version-limit", 0, "stop after this version; 0 builds every version")
	return cmd
}

// GenCommand writes a generator profile to a changeset directory.
func GenCommand() *cobra.Command {
	var (
		profile  string
		seed     uint64
		versions int64
	)
	cmd := &cobra.Command{
		Use:   "gen-changesets [out-dir]",
		Short: "Generate changeset files for later runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gens, err := core.ProfileGenerators(profile, seed, versions)
			if err != nil {
				return err
			}
			log := core.Logger.With().Str("profile", profile).Logger()
			return withCollector(cmd.Context(), log, func() error {
				return GenerateChangesets(TreeParams{Generators: gens, Logger: log}, args[0])
			})
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "small", profileHelp())
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the workload generators")
	cmd.Flags().Int64Var(&versions, "versions", 100, "number of versions to generate")
	return cmd
}

// RunCommand replays a changeset directory against one backend.
func RunCommand(root *core.Root) *cobra.Command {
	var (
		flags         treeFlags
		dir           string
		targetVersion int64
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay changeset files against a tree backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := changesetDir(dir).loadInfo()
			if err != nil {
				return err
			}
			multiTree, err := core.NewMultiTreeWithBackend(flags.backend, info.StoreNames...)
			if err != nil {
				return err
			}
			ctx, closer, err := flags.treeContext(cmd, root, "run")
			if err != nil {
				return err
			}
			defer closer.Close()

			hash, err := Run(ctx, multiTree, dir, targetVersion)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%x\n", hash)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&dir, "changeset-dir", "", "directory containing the changeset files")
	cmd.Flags().Int64Var(&targetVersion, "versions", 0, "number of versions to apply; 0 applies every version in the directory")
	_ = cmd.MarkFlagRequired("changeset-dir")
	return cmd
}

func profileHelp() string {
	var names []string
	for name := range core.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("data generation profile to use (%s)", strings.Join(names, "|"))
}
