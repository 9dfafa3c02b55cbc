package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Mshel/mineopoly/internal/arena"
	"github.com/Mshel/mineopoly/internal/game"
	"github.com/Mshel/mineopoly/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

const (
	host string = "0.0.0.0"
	port string = "6996"

	maxConnectionsPerIP = 2
)

var (
	ipCounter = make(map[string]int)
	ipMutex   sync.Mutex
)

func getIP(s ssh.Session) string {
	if addr, ok := s.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return s.RemoteAddr().String()
}

func incrementIP(ip string) {
	ipMutex.Lock()
	defer ipMutex.Unlock()
	ipCounter[ip]++
}

func decrementIP(ip string) {
	ipMutex.Lock()
	defer ipMutex.Unlock()
	ipCounter[ip]--
	if ipCounter[ip] <= 0 {
		delete(ipCounter, ip)
	}
}

func getCount(ip string) int {
	ipMutex.Lock()
	defer ipMutex.Unlock()
	return ipCounter[ip]
}

func connectionLimiterMiddleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		ip := getIP(s)
		currentCount := getCount(ip)

		if currentCount >= maxConnectionsPerIP {
			log.Warn("Connection denied: IP limit exceeded", "ip", ip, "attempted_count", currentCount+1, "current_limit", maxConnectionsPerIP)
			errorMessage := fmt.Sprintf("Too many active connections from your IP (%d/%d). Please try again later.\r\n", currentCount+1, maxConnectionsPerIP)
			s.Write([]byte(errorMessage))
			s.Close()
			return
		}

		incrementIP(ip)
		log.Info("Connection accepted", "ip", ip, "current_count", getCount(ip), "limit", maxConnectionsPerIP)
		next(s)
		decrementIP(ip)
		log.Info("Connection closed", "ip", ip, "count_after", getCount(ip))
	}
}

// spectatorServer holds what every session shares.
type spectatorServer struct {
	cfg      arena.Config
	roster   *arena.Roster
	history  *arena.RoundHistory
	recorder *arena.ResultRecorder
}

func (s *spectatorServer) newMatch(seed int64, opponent string) (*arena.Match, error) {
	matchCfg := s.cfg
	matchCfg.Seed = seed
	return s.roster.NewMatch(matchCfg, game.StrategyName, opponent,
		arena.WithRoundRecorder(s.recorder.Record))
}

func (s *spectatorServer) viewHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()
	controllerModel := ui.NewControllerModel(sshSession.Context(), s.newMatch, s.history,
		s.roster.Names(), s.cfg.Rounds, s.cfg.Seed, pty.Window.Width, pty.Window.Height)

	return controllerModel, []tea.ProgramOption{tea.WithAltScreen()}
}

func main() {
	cfg := arena.Default()
	if path := os.Getenv("MINEOPOLY_CONFIG_PATH"); path != "" {
		loaded, err := arena.Load(path)
		if err != nil {
			log.Fatal("Could not load config", "path", path, "error", err)
		}
		cfg = loaded
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	roster, err := arena.NewRoster(cfg.Scripts, log.Default())
	if err != nil {
		log.Fatal("Could not load strategies", "error", err)
	}
	history, err := arena.OpenRoundHistory(cfg.DatabasePath, log.Default())
	if err != nil {
		log.Fatal("Could not open round history", "path", cfg.DatabasePath, "error", err)
	}
	defer history.Close()
	recorder := arena.NewResultRecorder(history, log.Default())
	defer recorder.Close()

	server := &spectatorServer{cfg: cfg, roster: roster, history: history, recorder: recorder}

	sshPKeyPath := os.Getenv("MINEOPOLY_PRIVATE_KEY_PATH")

	sshServer, serverCreateErr := wish.NewServer(
		wish.WithAddress(host+":"+port),
		wish.WithHostKeyPath(sshPKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(server.viewHandler),
			logging.Middleware(),
			activeterm.Middleware(),
			connectionLimiterMiddleware,
		),
	)
	if serverCreateErr != nil {
		log.Error("Failed to create ssh server", "error", serverCreateErr)
		return
	}

	serverDoneChannel := make(chan os.Signal, 1)
	signal.Notify(serverDoneChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Info("Starting SSH server", "host", host, "port", port)
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("Could not start server", "error", err)
			serverDoneChannel <- nil
		}
	}()

	<-serverDoneChannel

	log.Info("Stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sshServer.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop server", "error", err)
	}
}
