// El shell de escritorio lanza el servidor API como proceso hijo, espera a que
// quede listo y abre la interfaz en el navegador del sistema. Pensado para el
// modo local sin conexión: el servidor usa el almacén de archivo y todo corre
// en la máquina del negocio.
package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/andresvp/lubristock-api/pkg/config"
	"github.com/andresvp/lubristock-api/pkg/logger"
)

const (
	readyTimeout = 15 * time.Second
	probeTimeout = 3 * time.Second
	graceTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	apiBin := os.Getenv("LUBRISTOCK_API_BIN")
	if apiBin == "" {
		apiBin = defaultAPIBinary()
	}

	cmd := exec.Command(apiBin)
	cmd.Env = os.Environ()
	// Modo local por defecto: el escritorio trabaja contra el archivo salvo
	// que el operador pida otra cosa por entorno.
	if os.Getenv("STORE_MODE") == "" {
		cmd.Env = append(cmd.Env, "STORE_MODE="+config.StoreModeFile)
	}
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Fatal().Err(err).Msg("preparar salida del servidor")
	}
	if err := cmd.Start(); err != nil {
		log.Fatal().Err(err).Str("bin", apiBin).Msg("lanzar servidor API")
	}
	log.Info().Int("pid", cmd.Process.Pid).Str("bin", apiBin).Msg("servidor API lanzado")

	// Reenvía SIGINT/SIGTERM al hijo y espera un cierre ordenado acotado.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ready := make(chan struct{}, 1)
	go scanForReady(stdout, ready)

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	select {
	case <-ready:
		log.Info().Msg("servidor listo (línea de arranque detectada)")
	case err := <-exited:
		log.Error().Err(err).Msg("el servidor terminó antes de quedar listo; revise el log anterior para el detalle")
		os.Exit(1)
	case <-time.After(readyTimeout):
		// La línea pudo perderse (buffer, formato de log distinto):
		// un único probe HTTP decide antes de rendirse.
		if !probeHealth(cfg.HTTP.BaseURL()) {
			log.Error().
				Str("url", cfg.HTTP.BaseURL()).
				Msg("el servidor no respondió; verifique que el puerto esté libre y que DATA_FILE sea escribible")
			stopChild(cmd, exited)
			os.Exit(1)
		}
		log.Info().Msg("servidor listo (verificado vía /health)")
	case sig := <-quit:
		forwardAndExit(cmd, exited, sig, log)
		return
	}

	url := cfg.HTTP.BaseURL()
	fmt.Println("LubriStock disponible en", url)
	if err := openBrowser(url); err != nil {
		log.Warn().Err(err).Msg("no se pudo abrir el navegador; abra la URL manualmente")
	}

	select {
	case sig := <-quit:
		forwardAndExit(cmd, exited, sig, log)
	case err := <-exited:
		if err != nil {
			log.Error().Err(err).Msg("el servidor API terminó con error")
			os.Exit(1)
		}
		log.Info().Msg("el servidor API terminó")
	}
}

// scanForReady lee el stdout del hijo línea a línea, lo replica en el propio
// stdout y avisa al encontrar la línea de arranque.
func scanForReady(r io.Reader, ready chan<- struct{}) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	notified := false
	for scanner.Scan() {
		line := scanner.Text()
		fmt.Println(line)
		if !notified && strings.Contains(line, config.ReadyLine) {
			notified = true
			ready <- struct{}{}
		}
	}
}

// probeHealth hace un único GET a /health; true si responde 200.
func probeHealth(baseURL string) bool {
	client := &http.Client{Timeout: probeTimeout}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func forwardAndExit(cmd *exec.Cmd, exited <-chan error, sig os.Signal, log *logger.Logger) {
	log.Info().Str("signal", sig.String()).Msg("cerrando servidor API...")
	stopChild(cmd, exited)
	log.Info().Msg("shell de escritorio detenido")
}

// stopChild pide terminación ordenada y mata el proceso si no responde a tiempo.
func stopChild(cmd *exec.Cmd, exited <-chan error) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-exited:
	case <-time.After(graceTimeout):
		_ = cmd.Process.Kill()
		<-exited
	}
}

// defaultAPIBinary busca el binario del servidor junto al ejecutable del shell.
func defaultAPIBinary() string {
	name := "lubristock-api"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	exe, err := os.Executable()
	if err != nil {
		return "./" + name
	}
	return filepath.Join(filepath.Dir(exe), name)
}

// openBrowser abre la URL con el mecanismo del sistema operativo.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
