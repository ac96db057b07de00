package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ghodss/yaml"
	"github.com/imdario/mergo"
	"github.com/spf13/pflag"

	"github.com/0k/chlog/config"
	"github.com/0k/chlog/runner"
	"github.com/0k/chlog/vcs"
	"github.com/0k/chlog/vcs/gitcli"
	"github.com/0k/chlog/vcs/gitgo"
)

// Version is overridden by go build -X
var Version = "dev"

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(rawArgs []string) error {
	cfg := config.New(nil)
	flagCfg := &config.Config{}

	var help bool
	var version bool
	var cfgFile string
	var checkCommitFile string
	var checkFromGit bool
	var readStats bool
	var printConfig bool
	var debugConfig string
	var printLatest bool
	var printNext bool
	var doCommit bool
	flags := pflag.NewFlagSet("chlog", pflag.ExitOnError)
	flags.BoolVarP(&help, "help", "h", false, "show help")
	flags.BoolVarP(&version, "version", "V", false, "print version and exit")
	flags.BoolVarP(&flagCfg.Dryrun, "dry-run", "n", false, "Don't do destructive operations")
	flags.BoolVar(&flagCfg.InCI, "ci", false, "Run in CI mode")
	flags.StringVarP(&flagCfg.Output, "output", "o", "", "write the changelog to `file` (default -, stdout)")
	flags.StringVar(&flagCfg.Format, "format", "", "changelog `format`: rest, markdown (default rest)")
	flags.StringVar(&flagCfg.TemplatePath, "template", "", "path to custom go text/template `file`")
	flags.StringVar(&flagCfg.Backend, "backend", "", "vcs `backend`: gitcli, gitgo (default gitcli)")
	flags.StringVar(&flagCfg.SinceTag, "since-tag", "", "only include releases after `tag`")
	flags.StringVar(&flagCfg.Name, "name", "", "name the project")
	flags.StringArrayVarP(&flagCfg.Branches, "branch", "b", nil, "set release branch to `name`")
	flags.StringArrayVar(&flagCfg.AllowedScopes, "allowed-scope", nil, "declare allowed scopes' `name`s")
	flags.StringArrayVar(&flagCfg.AllowedTypes, "allowed-type", nil, "declare allowed commit `type`s")
	flags.BoolVar(&flagCfg.Strict, "strict", false, "require checked commits to map to a changelog section")
	flags.BoolVarP(&checkFromGit, "check", "C", false, "only validate commits since last release")
	flags.StringVar(&checkCommitFile, "check-commit", "", "only validate the commit message in `file` (- for stdin)")
	flags.BoolVarP(&readStats, "stats", "S", false, "print repository stats")
	flags.BoolVar(&printLatest, "latest", false, "Print latest released version and exit")
	flags.BoolVar(&printNext, "next", false, "Print next version and exit")
	flags.BoolVar(&doCommit, "commit", false, "commit the regenerated changelog file")
	flags.BoolVarP(&flagCfg.Verbose, "verbose", "v", false, "print additional debugging info")
	flags.BoolVarP(&flagCfg.Quiet, "quiet", "q", false, "print as little as necessary")
	flags.StringVarP(&cfgFile, "config", "c", "", "specify config `file`")
	flags.BoolVar(&printConfig, "print-config", false, "Print effective configuration and exit")
	flags.StringVar(&debugConfig, "debug-config", "", "Write configuration to `file` and exit")

	if err := flags.Parse(rawArgs); err != nil {
		return err
	}

	if help {
		usage(cfg, flags)
		return nil
	}
	if version {
		cfg.Printf("%s", Version)
		return nil
	}

	chlogYAML, err := readChlogYAML(cfgFile)
	if err != nil {
		return err
	}
	if chlogYAML != nil {
		if err := mergo.Merge(&cfg, chlogYAML, mergo.WithOverride); err != nil {
			return err
		}
	}
	if err := mergo.Merge(&cfg, flagCfg, mergo.WithOverride); err != nil {
		return err
	}
	if !cfg.InCI {
		if env := os.Getenv("CI"); env == "true" || env == "1" || env == "yes" {
			cfg.InCI = true
		}
	}
	branchesSet := false
	if fl := flags.Lookup("branch"); fl != nil && fl.Changed {
		branchesSet = true
	}
	if chlogYAML != nil && chlogYAML.Branches != nil {
		branchesSet = true
	}
	cfg.BranchesSet = branchesSet

	if printConfig {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cfg.Term.Stdout, "%s", string(b))
		return nil
	}
	if debugConfig != "" {
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		if debugConfig == "-" {
			fmt.Fprintf(cfg.Term.Stdout, "%s\n", b)
		} else if err := os.WriteFile(debugConfig, b, 0644); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if debugConfig != "" {
		return nil
	}
	// done setting up config

	var vc vcs.Interface
	useGitgo := cfg.Backend == "gitgo"
	if cfg.Backend == "" {
		if _, err := exec.LookPath("git"); err != nil {
			cfg.Debugf("git not found in PATH, using gitgo backend")
			useGitgo = true
		}
	}
	if useGitgo {
		repo, err := gitgo.Open(cfg, ".")
		if err != nil {
			return err
		}
		vc = repo
	} else {
		vc = gitcli.New(cfg, "")
	}
	rnr, err := runner.New(cfg, vc)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if readStats {
		stats, err := rnr.Stats(ctx)
		if err != nil {
			return err
		}
		return stats.TextSummary(cfg.Term.Stdout)
	}

	if checkFromGit || checkCommitFile != "" {
		var err error
		if checkFromGit {
			_, err = rnr.CheckCommitsFromGit(ctx)
		} else if checkCommitFile == "-" {
			_, err = rnr.CheckReadCommit(ctx, cfg.Term.Stdin)
		} else {
			var f *os.File
			f, err = os.Open(checkCommitFile)
			if err != nil {
				return err
			}
			_, err = rnr.CheckReadCommit(ctx, f)
			f.Close()
		}
		if err != nil {
			cf := runner.CheckFailure{}
			if errors.As(err, &cf) {
				if werr := cf.WriteFailure(cfg.Term.Stdout); werr != nil {
					cfg.Errorf("failed to write invalid commit information: %v", werr)
				}
			}
			return err
		}
		cfg.Printf("OK")
		return nil
	}

	istty := cfg.Term.Interactive()

	if printLatest || printNext {
		var s string
		var err error
		if printLatest {
			s, err = rnr.Latest(ctx)
		} else {
			s, err = rnr.Next(ctx)
		}
		if err != nil {
			return err
		}
		if cfg.Quiet || !istty {
			fmt.Fprintf(cfg.Term.Stdout, "%s", s)
		} else {
			fmt.Fprintln(cfg.Term.Stdout, s)
		}
		return nil
	}

	if doCommit {
		return rnr.CommitChangelog(ctx)
	}
	return rnr.Write(ctx)
}

func usage(cfg config.Config, flags *pflag.FlagSet) {
	cfg.Printf(`%s

A utility for generating changelogs from commit messages.

FLAGS
%s
EXAMPLES

# print the changelog for the whole history
$ chlog

# write a markdown changelog for releases after 1.2.0
$ chlog --format markdown --since-tag 1.2.0 -o CHANGELOG.md

# regenerate CHANGELOG.rst and commit it
$ chlog -o CHANGELOG.rst --commit

# validate commits since the last release
$ chlog --check --strict

# validate a commit message from a commit-msg hook
$ chlog --check-commit "$1"
`, os.Args[0], flags.FlagUsages())
}

func readChlogYAML(p string) (*config.Config, error) {
	if p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		cfg := &config.Config{}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	for {
		candPath := filepath.Join(wd, "chlog.yaml")
		b, err := os.ReadFile(candPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				wd, _ = filepath.Split(filepath.Clean(wd))
				if wd == "/" {
					break
				}
				continue
			}
			return nil, err
		}

		cfg := &config.Config{}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return nil, nil
}
