// mmlgw exposes the MML query pipeline over HTTP: per-subscriber PDP
// and MM context queries fanned out across the configured NEs, plus
// SNMP reachability checks.
package main

import (
	"flag"
	"net/http"
	"os"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/nanoncore/nano-mml/config"
	"github.com/nanoncore/nano-mml/dispatch"
	"github.com/nanoncore/nano-mml/enrich"
	"github.com/nanoncore/nano-mml/lookup"
	"github.com/nanoncore/nano-mml/parse"
	"github.com/nanoncore/nano-mml/probe"
	"github.com/nanoncore/nano-mml/session"
	"github.com/nanoncore/nano-mml/transport"
	"github.com/nanoncore/nano-mml/types"
)

var startedAt = time.Now()

func main() {
	configPath := flag.String("config", "mmlgw.toml", "path to the TOML configuration file")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Credentials may live in a .env next to the binary
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	store, err := lookup.LoadStore(cfg.Lookups.Operators, cfg.Lookups.Cells, cfg.Lookups.Devices)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load reference tables")
	}

	dialer, err := transport.NewDialer(transport.Kind(cfg.Gateway.Transport), cfg.Credentials())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build transport")
	}

	app := &application{
		cfg:        cfg,
		log:        log,
		msisdnRE:   regexp.MustCompile(cfg.Query.MSISDNPattern),
		dispatcher: dispatch.New(cfg.Gateway.Addr(), dialer, cfg.Credentials(), cfg.Gateway.Timeout()).WithLogger(log),
		enricher:   enrich.New(store),
		prober:     probe.New(cfg.SNMPCommunity, cfg.Gateway.Timeout()),
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", app.health)
	r.GET("/health/:ne", app.healthNE)
	r.GET("/pdp/:msisdn", app.getPDP)
	r.GET("/mm/:msisdn", app.getMM)

	log.Info().Str("listen", cfg.Listen).Msg("mmlgw up")
	if err := r.Run(cfg.Listen); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}

type application struct {
	cfg        config.Config
	log        zerolog.Logger
	msisdnRE   *regexp.Regexp
	dispatcher *dispatch.Dispatcher
	enricher   *enrich.Enricher
	prober     *probe.Prober
}

func (a *application) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(startedAt).String(),
		"service": "mmlgw",
	})
}

func (a *application) healthNE(c *gin.Context) {
	name := c.Param("ne")
	for _, el := range a.cfg.Elements {
		if el.Name != name {
			continue
		}
		status, err := a.prober.Check(c.Request.Context(), el.Address)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "ne": name, "snmp": status})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "unknown element: " + name})
}

func (a *application) getPDP(c *gin.Context) {
	a.query(c, types.QuerySpec{
		Command:  session.PDPQuery("MSISDN", c.Param("msisdn")),
		VNFCRole: a.cfg.Query.VNFCPDP,
	}, parse.ShapePDP)
}

func (a *application) getMM(c *gin.Context) {
	a.query(c, types.QuerySpec{
		Command:  session.MMQuery("MSISDN", c.Param("msisdn")),
		VNFCRole: a.cfg.Query.VNFCMM,
	}, parse.ShapeFlat)
}

func (a *application) query(c *gin.Context, spec types.QuerySpec, shape parse.Shape) {
	msisdn := c.Param("msisdn")
	if !a.msisdnRE.MatchString(msisdn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msisdn + " is an invalid MSISDN"})
		return
	}

	raws, err := a.dispatcher.Run(a.cfg.Endpoints(), spec)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	assembler := &dispatch.Assembler{Enricher: a.enricher, Shape: shape}
	c.JSON(http.StatusOK, assembler.Assemble(raws))
}
