package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jeanpaul/tvyn/internal/api"
	"github.com/jeanpaul/tvyn/internal/catalog"
	"github.com/jeanpaul/tvyn/internal/config"
	"github.com/jeanpaul/tvyn/internal/dislikes"
	"github.com/jeanpaul/tvyn/internal/headless"
	"github.com/jeanpaul/tvyn/internal/health"
	"github.com/jeanpaul/tvyn/internal/logger"
	"github.com/jeanpaul/tvyn/internal/transcript"
	"github.com/jeanpaul/tvyn/internal/tui"
)

func cmdAsk(ctx context.Context, gf globalFlags, args []string) error {
	a, err := newApp(gf, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" || question == "-" {
		return headless.RunLines(ctx, a.sess, os.Stdin, os.Stdout, os.Stderr)
	}
	return headless.Run(ctx, a.sess, question, os.Stdout)
}

func cmdKeywords(gf globalFlags, args []string) error {
	fs := flag.NewFlagSet("keywords", flag.ExitOnError)
	n := fs.Int("n", 0, "Number of keywords (default from config)")
	_ = fs.Parse(args)

	a, err := newApp(gf, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	limit := *n
	if limit <= 0 {
		limit = a.cfg.Assistant.Keywords
	}
	top, err := a.sess.TopKeywords(limit)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		fmt.Println(tui.HelpStyle.Render("  No keywords yet"))
		return nil
	}
	fmt.Println(tui.BannerStyle.Render(fmt.Sprintf("  Top %d keywords", limit)))
	fmt.Println()
	for i, k := range top {
		fmt.Printf("  %2d. %s\n", i+1, k.Title())
	}
	return nil
}

func cmdExport(gf globalFlags, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "Output file (default stdout)")
	_ = fs.Parse(args)

	a, err := newApp(gf, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	text, ok, err := a.sess.Transcript()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no transcript at %s yet", a.cfg.Data.TranscriptFile)
	}
	if *out == "" {
		_, err = io.WriteString(os.Stdout, text)
		return err
	}
	if err := os.WriteFile(*out, []byte(text), 0644); err != nil {
		return err
	}
	fmt.Println(tui.SuccessStyle.Render("  ✓ Transcript written to " + *out))
	return nil
}

func cmdServe(ctx context.Context, gf globalFlags, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "Listen address (default from config)")
	_ = fs.Parse(args)

	a, err := newApp(gf, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	listen := firstNonEmpty(*addr, a.cfg.Server.Addr)
	return api.Serve(ctx, listen, a.log, a.sess)
}

func cmdConfig(gf globalFlags) error {
	cfg, err := config.LoadFile(gf.config)
	if err != nil {
		return err
	}
	out, err := cfg.YAML()
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func cmdInit(gf globalFlags, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing workbook")
	_ = fs.Parse(args)

	cfg, err := config.LoadFile(gf.config)
	if err != nil {
		return err
	}
	path := cfg.Data.ProductsFile
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	if err := catalog.WriteWorkbook(path, catalog.SampleProducts); err != nil {
		return err
	}
	fmt.Println(tui.SuccessStyle.Render(fmt.Sprintf("  ✓ Wrote %d sample products to %s", len(catalog.SampleProducts), path)))
	return nil
}

func cmdDoctor(ctx context.Context, gf globalFlags) error {
	cfg, err := config.LoadFile(gf.config)
	if err != nil {
		return err
	}

	fmt.Print(tui.GradientBanner())
	fmt.Println(tui.BannerStyle.Render("  Health Check"))
	fmt.Println()

	problems := 0
	check := func(label string, fn func() (string, error)) {
		fmt.Printf("  %s %s ... ", tui.CommandStyle.Render("●"), tui.UserLabelStyle.Render(label))
		detail, err := fn()
		if err != nil {
			problems++
			fmt.Println(tui.ErrorStyle.Render("✗ " + err.Error()))
			return
		}
		fmt.Println(tui.SuccessStyle.Render("✓ " + detail))
	}

	check("catalog", func() (string, error) {
		if _, err := os.Stat(cfg.Data.ProductsFile); os.IsNotExist(err) {
			return cfg.Data.ProductsFile + " missing, the shelf is empty (run tvyn init)", nil
		}
		products, err := catalog.NewLoader(cfg.Data.ProductsFile, logger.Discard()).Load()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d products, %d units", len(products), catalog.TotalUnits(products)), nil
	})
	check("dislikes", func() (string, error) {
		set, err := dislikes.NewFileStore(cfg.Data.DislikesFile).Load()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d items", len(set)), nil
	})
	check("transcript", func() (string, error) {
		l := transcript.NewLogger(cfg.Data.TranscriptFile)
		if !l.Exists() {
			return "none yet", nil
		}
		text, err := l.ReadAll()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d turns", strings.Count(text, transcript.UserLabel)), nil
	})

	fmt.Println()
	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pcfg := cfg.Providers[name]
		required := cfg.Assistant.LLMFallback && name == cfg.DefaultProvider
		label := name
		if name == cfg.DefaultProvider {
			label += " (default)"
		}
		fmt.Printf("  %s %s ... ", tui.CommandStyle.Render("●"), tui.UserLabelStyle.Render(label))

		prov, err := makeProvider(cfg, name, "")
		if err != nil {
			problems++
			fmt.Println(tui.ErrorStyle.Render("✗ " + err.Error()))
			continue
		}
		status := health.Check(ctx, prov, pcfg.BaseURL)
		switch {
		case status.Reachable:
			fmt.Printf("%s %s\n",
				tui.SuccessStyle.Render(fmt.Sprintf("✓ OK (%d models)", len(status.Models))),
				tui.HelpStyle.Render(status.Latency.Round(time.Millisecond).String()),
			)
		case required:
			problems++
			fmt.Println(tui.ErrorStyle.Render("✗ " + status.Error))
		default:
			fmt.Println(tui.HelpStyle.Render("- " + status.Error + " (optional)"))
		}
	}

	fmt.Println()
	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	fmt.Println(tui.BannerStyle.Render("  All good!"))
	return nil
}
