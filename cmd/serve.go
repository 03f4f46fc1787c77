package cmd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/chordplay/chord"
	"github.com/jsphweid/chordplay/constants"
	"github.com/jsphweid/chordplay/drum"
	"github.com/jsphweid/chordplay/history"
	"github.com/jsphweid/chordplay/midi"
	"github.com/jsphweid/chordplay/model"
	"github.com/jsphweid/chordplay/player"
	"github.com/jsphweid/chordplay/synth"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var port string

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", constants.GetPort(), "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the playback API",
	Long:  `Serves the playback API over HTTP and plays through a fluidsynth subprocess.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(port)
	},
}

type server struct {
	link     *synth.Link
	player   *player.Scheduler
	history  history.Store
	resolver chord.Resolver
	log      *zap.Logger
}

func historyStore() (history.Store, error) {
	endpoint := constants.GetHistoryEndpoint()
	if endpoint == "" {
		return history.NewMemory(), nil
	}
	return history.DialDynamo(endpoint, constants.GetHistoryRegion(), constants.GetHistoryTable())
}

func newServer(link *synth.Link, store history.Store, res chord.Resolver, log *zap.Logger) *server {
	return &server{
		link: link,
		player: player.New(link,
			player.WithChannel(link.Channel()),
			player.WithResolver(res),
			player.WithRecorder(store),
			player.WithLogger(log)),
		history:  store,
		resolver: res,
		log:      log.Named("http"),
	}
}

// ensureSynth brings the synthesizer back if it failed earlier, e.g. a sound
// bank that has since been installed.
func (s *server) ensureSynth() error {
	if s.link.State() == synth.Healthy {
		return nil
	}
	return s.link.Start()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadBody),
		errors.Is(err, chord.ErrInvalidChordSymbol),
		errors.Is(err, chord.ErrInvalidTonic),
		errors.Is(err, chord.ErrInvalidMode),
		errors.Is(err, player.ErrInvalidTempo),
		errors.Is(err, player.ErrInvalidDuration),
		errors.Is(err, player.ErrEmptyProgression),
		errors.Is(err, drum.ErrUnknownPattern),
		errors.Is(err, midi.ErrNothingToRender):
		return http.StatusBadRequest
	case errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, synth.ErrSynthesizerUnavailable),
		errors.Is(err, synth.ErrSynthesizerProcessDied):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.log.Info("bad request", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func decodePlayBody(r *http.Request) (model.PlayRequestBody, error) {
	var body model.PlayRequestBody
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		return body, errors.Wrap(errBadBody, err.Error())
	}
	if err := json.Unmarshal(reqBody, &body); err != nil {
		return body, errors.Wrap(errBadBody, err.Error())
	}
	return body, nil
}

func (s *server) handlePlay(w http.ResponseWriter, r *http.Request) {
	body, err := decodePlayBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := toRequest(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.player.Validate(req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.ensureSynth(); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.player.Start(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.PlayResponse{Status: "success", SessionId: sess.ID})
}

func (s *server) handleStop(w http.ResponseWriter, r *http.Request) {
	if err := s.player.Stop(); err != nil {
		// the session is over either way
		s.log.Warn("stop", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, model.PlayResponse{Status: "success"})
}

func (s *server) handleNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tonic := q.Get("tonic")
	if tonic == "" {
		tonic = "C"
	}
	mode := model.Major
	if m := q.Get("mode"); m != "" {
		parsed, err := chord.ParseMode(m)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		mode = parsed
	}

	notes, err := s.resolver.ResolveTriad(q.Get("symbol"), tonic, mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res := model.NotesResponse{Key: chord.CreateChordKey(notes[:])}
	for _, n := range notes {
		res.Notes = append(res.Notes, int(n))
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	res := model.StatusResponse{
		State: s.player.State().String(),
		Synth: s.link.State().String(),
	}
	if cur := s.player.Current(); cur != nil {
		res.SessionId = cur.ID
	}
	if last := s.player.Last(); last != nil && last.Err() != nil {
		res.LastError = last.Err().Error()
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.PatternsResponse{Patterns: drum.Names()})
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	body, err := decodePlayBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := toRequest(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := midi.DefaultRenderOptions()
	opts.Resolver = s.resolver
	opts.Channel = s.link.Channel()
	file, err := midi.Render(midi.Song{
		Progression: req.Progression,
		Tempo:       req.Tempo,
		Key:         req.Key,
		Drums:       req.Drums,
	}, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", `attachment; filename="progression.mid"`)
	if err := midi.Write(w, file); err != nil {
		s.log.Error("writing export", zap.Error(err))
	}
}

func (s *server) handleSession(w http.ResponseWriter, r *http.Request) {
	rec, err := s.history.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func newRouter(s *server, origins []string) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/play", s.handlePlay).Methods("POST")
	router.HandleFunc("/stop", s.handleStop).Methods("POST")
	router.HandleFunc("/notes", s.handleNotes).Methods("GET")
	router.HandleFunc("/status", s.handleStatus).Methods("GET")
	router.HandleFunc("/patterns", s.handlePatterns).Methods("GET")
	router.HandleFunc("/export", s.handleExport).Methods("POST")
	router.HandleFunc("/sessions/{id}", s.handleSession).Methods("GET")

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	}).Handler(router)
}

// NewAPI is the HTTP API playing through link.
func NewAPI(link *synth.Link, store history.Store, res chord.Resolver, log *zap.Logger, origins []string) (http.Handler, *player.Scheduler) {
	s := newServer(link, store, res, log)
	return newRouter(s, origins), s.player
}

func serve(port string) error {
	if _, err := strconv.Atoi(port); err != nil {
		return errors.Errorf("bad port %q", port)
	}
	res, err := resolver()
	if err != nil {
		return err
	}
	store, err := historyStore()
	if err != nil {
		return err
	}

	link := synth.New(synthConfig(), nil, log)
	if err := link.Start(); err != nil {
		// keep serving; /play answers 503 until the synthesizer comes up
		log.Error("synthesizer did not start", zap.Error(err))
	}
	srv := newServer(link, store, res, log)

	httpSrv := &http.Server{
		Addr:              ":" + port,
		Handler:           newRouter(srv, constants.GetCorsOrigins()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- httpSrv.ListenAndServe()
	}()
	log.Info("listening", zap.String("addr", httpSrv.Addr))

	var serveErr error
	select {
	case serveErr = <-errc:
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return multierr.Combine(
		serveErr,
		httpSrv.Shutdown(shutdownCtx),
		srv.player.Stop(),
		link.Shutdown(),
	)
}
