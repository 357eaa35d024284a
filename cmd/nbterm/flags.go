package main

import (
	"flag"
	"strings"
)

type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type rootArgs struct {
	configPath string
	overrides  []string
}

func parseRootArgs(args []string) (rootArgs, error) {
	fs := flag.NewFlagSet("nbterm", flag.ContinueOnError)
	var overrides stringSlice
	configPath := fs.String("config", "", "Path to the config file (default ~/.nbterm/config.toml)")
	gatewayAddr := fs.String("gateway", "", "Host channel address: stdio or a unix socket path")
	testMode := fs.Bool("test", false, "Run in test mode (no spinner, no usage events)")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, err
	}

	all := append([]string{}, overrides...)
	if *gatewayAddr != "" {
		all = append(all, "gateway="+*gatewayAddr)
	}
	if *testMode {
		all = append(all, "test_mode=true")
	}
	return rootArgs{configPath: *configPath, overrides: all}, nil
}
