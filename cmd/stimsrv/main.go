// stimsrv serves simulated receiver stimulus channels over HTTP.
// Each channel couples a piecewise waveform generator to an ideal ADC
// model; clients drive the virtual time base and read back analog
// values and latched codes with simple JSON requests.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"goji.io"
	"goji.io/pat"

	yml "gopkg.in/yaml.v2"

	"github.com/radiodyne/rxstim/adc"
	"github.com/radiodyne/rxstim/httpstim"
	"github.com/radiodyne/rxstim/stimulus"
	"github.com/radiodyne/rxstim/version"
	"github.com/radiodyne/rxstim/waveform"
)

var (
	// ConfigFileName is what it sounds like
	ConfigFileName = "stimsrv.yml"
	k              = koanf.New(".")
)

// ChannelSetup holds the construction parameters of one stimulus
// channel.
type ChannelSetup struct {
	// Endpoint is the URL stem the channel is served under,
	// e.g. "/iff/ch0".
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`

	// Waveform is the path of the yaml stimulus definition (carrier
	// and segment table) loaded into the channel's generator.
	Waveform string `yaml:"waveform" koanf:"waveform"`

	// ADC configures the converter at the end of the channel.
	ADC adc.Config `yaml:"adc" koanf:"adc"`

	// TimeStep is the generator's fine time advance in seconds.
	TimeStep float64 `yaml:"timeStep" koanf:"timeStep"`

	// SampleEvery is the number of fine steps per ADC sample edge.
	SampleEvery int `yaml:"sampleEvery" koanf:"sampleEvery"`
}

// Config holds the server configuration.
type Config struct {
	// Addr is the address to listen at
	Addr string `yaml:"addr" koanf:"addr"`

	// Channels is the list of stimulus channels to serve.
	Channels []ChannelSetup `yaml:"channels" koanf:"channels"`
}

func setupconfig() {
	k.Load(structs.Provider(Config{
		Addr: ":8000",
		Channels: []ChannelSetup{{
			Endpoint:    "/ch0",
			Waveform:    "stimulus.yml",
			ADC:         adc.Config{BitWidth: 14, Bipolar: true, VoltageScale: 5, VoltageOffset: 2.5, TwosComplement: true},
			TimeStep:    50e-12,
			SampleEvery: 200,
		}}}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

// sanitize turns "iff/ch0" into "/iff/ch0/*" for mounting.
func sanitize(stem string) string {
	if !strings.HasPrefix(stem, "/") {
		stem = "/" + stem
	}
	stem = strings.TrimSuffix(stem, "/")
	return stem
}

// BuildMux constructs the root goji mux with one chi sub-router per
// channel.
func BuildMux(c Config) (*goji.Mux, error) {
	root := goji.NewMux()
	for _, ch := range c.Channels {
		def, err := waveform.LoadDefinition(ch.Waveform)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %v", ch.Endpoint, err)
		}
		gen, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("channel %s: %v", ch.Endpoint, err)
		}
		conv, err := adc.New(ch.ADC)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %v", ch.Endpoint, err)
		}
		pl, err := stimulus.New(gen, conv, ch.TimeStep, ch.SampleEvery)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %v", ch.Endpoint, err)
		}
		r := chi.NewRouter()
		r.Use(middleware.Logger)
		httpstim.NewHTTPPipeline(pl).RouteTable.Bind(r)
		stem := sanitize(ch.Endpoint)
		root.Handle(pat.New(stem+"/*"), http.StripPrefix(stem, r))
		log.Println("channel", stem, "serving", ch.Waveform)
	}
	return root, nil
}

func root() {
	str := `stimsrv simulates the analog stimulus path of the digital receiver and
exposes it over HTTP, so DSP test harnesses in any language can drive
deterministic, reproducible waveforms into the ADC model.

Usage:
	stimsrv <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `stimsrv is configured via its .yaml file (stimsrv.yml).

Each channel names a URL endpoint, a waveform definition file, the ADC
configuration and the two clock parameters: timeStep (the generator's
fine step, seconds) and sampleEvery (fine steps per ADC sample edge).

The waveform definition file holds the carrier parameters and the
envelope segment table; run 'stimsrv mkconf' for a starting point and
see the waveform package documentation for the segment kinds and
their parameters.

No two channels can share an endpoint.`
	fmt.Println(str)
}

func mkconf() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
	// also drop a starter waveform so 'run' works out of the box:
	// a 1 ms ramp up, a burst, then quiet, on a 10 MHz carrier
	def := waveform.Definition{
		Carrier: waveform.Carrier{Amp: 1, Freq: 10e6, Phase: 0, Offset: 2.5},
		Segments: []waveform.Segment{
			{End: 1e-3, Kind: waveform.KindLinear, Params: [6]float64{0, 1}},
			{End: 2e-3, Kind: waveform.KindGaussian, Params: [6]float64{2, 1, 1.5e-3, 250e-6}},
			{End: 3e-3, Kind: waveform.KindConstant, Params: [6]float64{0.25}},
			{Kind: waveform.KindEnd, Params: [6]float64{0}},
		},
	}
	for _, ch := range c.Channels {
		if _, err := os.Stat(ch.Waveform); err == nil {
			continue // don't clobber an existing definition
		}
		wf, err := os.Create(ch.Waveform)
		if err != nil {
			log.Fatal(err)
		}
		if err := yml.NewEncoder(wf).Encode(def); err != nil {
			log.Fatal(err)
		}
		wf.Close()
	}
}

func printconf() {
	c := Config{}
	k.Unmarshal("", &c)
	err := yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func run() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	mux, err := BuildMux(c)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("now listening for requests at ", c.Addr)
	log.Fatal(http.ListenAndServe(c.Addr, mux))
}

func main() {
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd := strings.ToLower(args[1])
	switch cmd {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "version":
		fmt.Println("stimsrv version", version.Long())
	case "run":
		run()
	default:
		root()
	}
}
