package main

import (
	"flag"
	"log"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/badukstudy/aicore/internal/config"
	"github.com/badukstudy/aicore/internal/facade"
	"github.com/badukstudy/aicore/internal/inference"
	"github.com/badukstudy/aicore/internal/obslog"
	httpserver "github.com/badukstudy/aicore/internal/server/http"
)

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // best-effort; some deployment targets have no display
}

func main() {
	addr := flag.String("addr", ":2888", "listen address")
	webDir := flag.String("web", "./web", "directory with index.html / js / svg")
	cfgPath := flag.String("config", "", "path to a config file; flags below are used when empty")
	modelPath := flag.String("model", "model.onnx", "path to ONNX model file")
	libPath := flag.String("lib", "onnxruntime.so", "path to the onnxruntime shared library")
	boardSize := flag.Int("boardsize", 19, "board size")
	debug := flag.Bool("debug", false, "enable development-mode logging")
	openOnStart := flag.Bool("open", false, "open the default browser once the server is listening")
	flag.Parse()

	sessionCfg, backendPref, err := loadSessionConfig(*cfgPath, *modelPath, *libPath, *boardSize)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := obslog.New(*debug)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()
	logger.Debugw("resolved backend preference", "backends", backendPref)

	sess, err := inference.NewSession(sessionCfg, logger)
	if err != nil {
		log.Fatalf("starting inference session: %v", err)
	}
	defer sess.Close()

	fb := sess.Fallback()
	if fb.DidFallback {
		logger.Warnw("requested backend unavailable, fell back", "requested", fb.RequestedBackend, "active", fb.ActiveBackend)
	}

	f := facade.NewFacade(sess)
	defer f.Dispose()

	mux := http.NewServeMux()
	mux.Handle("/api/", httpserver.NewServer(f))
	httpserver.RegisterStaticRoutes(mux, *webDir, *webDir)

	log.Printf("listening on %s, serving static from %s", *addr, *webDir)

	if *openOnStart {
		go func() {
			time.Sleep(100 * time.Millisecond)
			openBrowser("http://127.0.0.1" + *addr)
		}()
	}

	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatal(err)
	}
}

// loadSessionConfig resolves the inference session's configuration: from
// a config file via viper when -config is set, otherwise straight from
// the flags passed on the command line.
func loadSessionConfig(cfgPath, modelPath, libPath string, boardSize int) (inference.Config, []inference.Backend, error) {
	if cfgPath != "" {
		cfg, err := config.Setup(cfgPath)
		if err != nil {
			return inference.Config{}, nil, err
		}
		return cfg.SessionConfig(), cfg.BackendPreference(), nil
	}

	sessionCfg := inference.Config{
		ModelPath: modelPath,
		LibPath:   libPath,
		BoardSize: boardSize,
	}
	return sessionCfg, inference.DefaultBackendPreference(), nil
}
