package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/api-sage/bankist/src/internal/config"
	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/ternarybob/banner"
)

func printBanner(cfg config.Config, storage string) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 60) + banner.ColorReset

	art := []string{
		` ____              _    _     _   `,
		`| __ )  __ _ _ __ | | _(_)___| |_ `,
		`|  _ \ / _' | '_ \| |/ / / __| __|`,
		`| |_) | (_| | | | |   <| \__ \ |_ `,
		`|____/ \__,_|_| |_|_|\_\_|___/\__|`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	kvLines := [][2]string{
		{"Environment", cfg.Environment},
		{"Listen", cfg.Server.Addr()},
		{"Storage", storage},
		{"Session", fmt.Sprintf("%d x %s", cfg.Session.Ticks, cfg.Session.GetTickInterval())},
		{"Loan delay", cfg.Loan.GetApprovalDelay().String()},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-14s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	logger.Info("application started", logger.Fields{
		"environment": cfg.Environment,
		"addr":        cfg.Server.Addr(),
		"storage":     storage,
	})
}

func printShutdownBanner() {
	hr := banner.ColorCyan + strings.Repeat("═", 30) + banner.ColorReset
	fmt.Fprintf(os.Stderr, "\n%s\n%s  BANKIST SHUTTING DOWN%s\n%s\n\n", hr, banner.ColorBold+banner.ColorWhite, banner.ColorReset, hr)
}
