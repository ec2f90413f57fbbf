package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/typesurvivors/internal/config"
	"github.com/tomz197/typesurvivors/internal/logging"
	"github.com/tomz197/typesurvivors/internal/loop"
	"github.com/tomz197/typesurvivors/internal/profile"
	"github.com/tomz197/typesurvivors/internal/words"
)

func main() {
	cfg, err := config.Load(os.Getenv("TYPESURVIVORS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// Stdout is the game screen, so logs only go to a file when asked for.
	logger := logging.Discard()
	if path := config.GetEnv("TYPESURVIVORS_LOG", cfg.Logging.File); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if logger, err = logging.New(f, cfg.Logging.Level, "game"); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	wordList, err := words.LoadOrDefault(os.Getenv("TYPESURVIVORS_WORDS"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load words: %v\n", err)
		os.Exit(1)
	}

	var storage profile.Storage
	if m, err := profile.OpenStorage(); err != nil {
		logger.Warn("profile storage unavailable, progress will not be saved", "err", err)
	} else {
		storage = m
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(reader, os.Stdout, loop.Options{
		Username: config.GetEnv("USER", "player"),
		Config:   cfg,
		Words:    wordList,
		Storage:  storage,
		Logger:   logger,
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
