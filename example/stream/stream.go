// Streams the perception pipeline's output over HTTP: an MJPEG feed with
// tracking and classification overlays plus JSON endpoints exposing the
// raw published results.
package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tooltrack/percept"
	"github.com/tooltrack/percept/camera"
	"github.com/tooltrack/percept/classify"
	"github.com/tooltrack/percept/detect"
	"github.com/tooltrack/percept/render"
	"gocv.io/x/gocv"
)

// Server reads published results from the pipeline and renders them for
// HTTP clients
type Server struct {
	pipe *percept.Pipeline
	font render.Font
}

// stream writes an MJPEG feed of the latest frames with result overlays.
// Each client paces itself off the mailbox sequence numbers, so slow
// clients skip frames instead of falling behind.
func (s *Server) stream(c *gin.Context) {

	log.Printf("new client connection established")

	c.Writer.Header().Set("Content-Type",
		"multipart/x-mixed-replace; boundary=frame")

	var lastSeq uint64

	for {
		select {
		case <-c.Request.Context().Done():
			log.Printf("client disconnected")
			return
		default:
		}

		frame, ok := s.pipe.Mailbox().Latest(lastSeq)

		if !ok {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		lastSeq = frame.Seq

		if snap, ok := s.pipe.Tracking(); ok {
			render.Tracks(&frame.Img, snap, s.font)
		}

		if res, ok := s.pipe.Classification(); ok {
			render.Banner(&frame.Img, res, s.pipe.FPS(), s.font)
		}

		buf, err := gocv.IMEncode(".jpg", frame.Img)
		frame.Close()

		if err != nil {
			log.Printf("error encoding frame: %v", err)
			continue
		}

		c.Writer.Write([]byte("--frame\r\n"))
		c.Writer.Write([]byte("Content-Type: image/jpeg\r\n\r\n"))
		c.Writer.Write(buf.GetBytes())
		c.Writer.Write([]byte("\r\n"))
		c.Writer.Flush()

		buf.Close()
	}
}

// classification returns the latest published classification result
func (s *Server) classification(c *gin.Context) {

	res, ok := s.pipe.Classification()

	if !ok {
		c.JSON(http.StatusServiceUnavailable,
			gin.H{"error": "no result published yet"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// tracking returns the latest published tracking snapshot
func (s *Server) tracking(c *gin.Context) {

	snap, ok := s.pipe.Tracking()

	if !ok {
		c.JSON(http.StatusServiceUnavailable,
			gin.H{"error": "no snapshot published yet"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	configFile := flag.String("c", "config.yaml", "Pipeline YAML config file")
	modelFile := flag.String("m", "../data/toolnet.onnx", "ONNX classification model file")
	httpAddr := flag.String("a", "localhost:8080", "HTTP Address to run server on, format address:port")
	flag.Parse()

	cfg, err := percept.LoadConfig(*configFile)

	if err != nil {
		log.Printf("Config file not loaded, using defaults: %v", err)
		cfg = percept.DefaultConfig()
	}

	labels, err := percept.LoadLabels(cfg.LabelFile)

	if err != nil {
		log.Fatalf("Error loading labels: %v", err)
	}

	scorer, err := classify.NewDNNScorer(*modelFile, cfg.CanonicalSize)

	if err != nil {
		log.Fatalf("Error loading model: %v", err)
	}

	defer scorer.Close()

	hog, err := detect.NewHOG()

	if err != nil {
		log.Fatalf("Error creating person detector: %v", err)
	}

	defer hog.Close()

	dev := camera.NewWebcam(cfg.DeviceID, cfg.ReadTimeout)
	pipe := percept.NewPipeline(cfg, dev, hog, scorer, labels)

	if err := pipe.Start(); err != nil {
		log.Fatalf("Error starting pipeline: %v", err)
	}

	srv := &Server{
		pipe: pipe,
		font: render.DefaultFont(),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.GET("/stream", srv.stream)
	router.GET("/classification", srv.classification)
	router.GET("/tracking", srv.tracking)

	go func() {
		log.Printf("Open browser and view video at http://%s/stream", *httpAddr)

		if err := router.Run(*httpAddr); err != nil {
			log.Fatalf("Error running http server: %v", err)
		}
	}()

	// stop the pipeline cleanly on interrupt
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	if err := pipe.Stop(); err != nil {
		if errors.Is(err, percept.ErrShutdownTimeout) {
			log.Fatalf("Fatal shutdown fault: %v", err)
		}
		log.Printf("Error stopping pipeline: %v", err)
	}

	pipe.Close()
}
