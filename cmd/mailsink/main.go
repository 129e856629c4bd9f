package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CapturedMail is one message accepted by the sink.
type CapturedMail struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	To         []string  `json:"to"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// Mailbox stores captured mail in memory, newest first.
type Mailbox struct {
	mu    sync.RWMutex
	mails []CapturedMail
	max   int
}

func NewMailbox(max int) *Mailbox {
	return &Mailbox{max: max}
}

func (b *Mailbox) Add(m CapturedMail) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mails = append([]CapturedMail{m}, b.mails...)
	if len(b.mails) > b.max {
		b.mails = b.mails[:b.max]
	}
}

func (b *Mailbox) List() []CapturedMail {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]CapturedMail, len(b.mails))
	copy(out, b.mails)
	return out
}

func (b *Mailbox) Get(id string) (CapturedMail, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, m := range b.mails {
		if m.ID == id {
			return m, true
		}
	}
	return CapturedMail{}, false
}

func (b *Mailbox) Clear() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.mails)
	b.mails = nil
	return n
}

// SMTPSink speaks just enough SMTP for gomail to hand over a message.
type SMTPSink struct {
	addr    string
	mailbox *Mailbox
	ln      net.Listener
}

func NewSMTPSink(addr string, mailbox *Mailbox) *SMTPSink {
	return &SMTPSink{addr: addr, mailbox: mailbox}
}

func (s *SMTPSink) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln

	for {
		conn, err := ln.Accept()
		if err != nil {
			if strings.Contains(err.Error(), "use of closed") {
				return nil
			}
			return err
		}
		go s.serve(conn)
	}
}

func (s *SMTPSink) Stop() {
	if s.ln != nil {
		s.ln.Close()
	}
}

func (s *SMTPSink) serve(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(30 * time.Second))

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	reply := func(line string) {
		w.WriteString(line + "\r\n")
		w.Flush()
	}

	reply("220 mailsink ready")

	mail := CapturedMail{ID: uuid.New().String()[:8]}
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(verb, "EHLO"), strings.HasPrefix(verb, "HELO"):
			reply("250 mailsink")
		case strings.HasPrefix(verb, "MAIL FROM:"):
			mail.From = strings.Trim(line[len("MAIL FROM:"):], " <>")
			reply("250 ok")
		case strings.HasPrefix(verb, "RCPT TO:"):
			mail.To = append(mail.To, strings.Trim(line[len("RCPT TO:"):], " <>"))
			reply("250 ok")
		case verb == "DATA":
			reply("354 end with <CRLF>.<CRLF>")
			if err := s.readData(r, &mail); err != nil {
				return
			}
			mail.ReceivedAt = time.Now()
			s.mailbox.Add(mail)
			log.Info().
				Str("id", mail.ID).
				Str("from", mail.From).
				Strs("to", mail.To).
				Str("subject", mail.Subject).
				Msg("mail captured")
			reply("250 ok queued as " + mail.ID)
			mail = CapturedMail{ID: uuid.New().String()[:8]}
		case verb == "RSET":
			mail = CapturedMail{ID: mail.ID}
			reply("250 ok")
		case verb == "QUIT":
			reply("221 bye")
			return
		default:
			reply("250 ok")
		}
	}
}

func (s *SMTPSink) readData(r *bufio.Reader, mail *CapturedMail) error {
	var body strings.Builder
	inHeaders := true
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "." {
			mail.Body = body.String()
			return nil
		}
		if inHeaders {
			if line == "" {
				inHeaders = false
				continue
			}
			if strings.HasPrefix(line, "Subject: ") {
				mail.Subject = strings.TrimPrefix(line, "Subject: ")
			}
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
}

// Handler exposes the mailbox over HTTP for inspection during development.
type Handler struct {
	mailbox *Mailbox
}

func NewHandler(mailbox *Mailbox) *Handler {
	return &Handler{mailbox: mailbox}
}

func (h *Handler) ListMails(c *gin.Context) {
	mails := h.mailbox.List()
	c.JSON(http.StatusOK, gin.H{
		"total": len(mails),
		"items": mails,
	})
}

func (h *Handler) GetMail(c *gin.Context) {
	m, ok := h.mailbox.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "mail not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) ClearMails(c *gin.Context) {
	n := h.mailbox.Clear()
	c.JSON(http.StatusOK, gin.H{"cleared": n})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/mails", handler.ListMails)
		v1.GET("/mails/:id", handler.GetMail)
		v1.DELETE("/mails", handler.ClearMails)
	}

	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	httpPort := getEnv("PORT", "8082")
	smtpPort := getEnv("SMTP_PORT", "1025")
	maxMails := getEnvInt("MAX_MAILS", 500)

	log.Info().
		Str("http_port", httpPort).
		Str("smtp_port", smtpPort).
		Int("max_mails", maxMails).
		Msg("Starting mail sink")

	mailbox := NewMailbox(maxMails)
	sink := NewSMTPSink(":"+smtpPort, mailbox)
	handler := NewHandler(mailbox)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := sink.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start SMTP sink")
		}
	}()

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	sink.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err == nil {
			return n
		}
	}
	return defaultValue
}
