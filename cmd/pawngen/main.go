// Command pawngen builds the pawn push tables, checks them and writes them
// out as source, stores them, renders diagrams or serves them over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hailam/pawnpush/internal/board"
	"github.com/hailam/pawnpush/internal/oracle"
	"github.com/hailam/pawnpush/internal/render"
	"github.com/hailam/pawnpush/internal/server"
	"github.com/hailam/pawnpush/internal/storage"
)

var (
	formatName = flag.String("format", "go", "output format: go, c or json")
	outPath    = flag.String("out", "", "write the table here instead of stdout")
	pkgName    = flag.String("package", "tables", "package name for -format go")
	dbDir      = flag.String("db", "", "badger directory (default $PAWNGEN_DB or the user data dir)")
	store      = flag.Bool("store", false, "save the table to the database")
	load       = flag.Bool("load", false, "load the table from the database instead of generating it")
	verify     = flag.Bool("verify", false, "cross-check the table against third-party move generators")
	serveAddr  = flag.String("serve", "", "serve the table over HTTP on this address (or $PAWNGEN_ADDR)")
	diagram    = flag.String("diagram", "", "write a PNG diagram of one entry to this file")
	squareName = flag.String("square", "e2", "square for -diagram")
	colorName  = flag.String("color", "white", "color for -diagram")
)

func main() {
	flag.Parse()

	table, err := board.BuildPushTable()
	if err != nil {
		log.Fatal("could not build push table: ", err)
	}

	if *store || *load {
		s, err := openStorage()
		if err != nil {
			log.Fatal("could not open storage: ", err)
		}
		defer s.Close()

		if *load {
			stored, meta, err := s.LoadPushTable()
			if err != nil {
				log.Fatal("could not load push table: ", err)
			}
			if !stored.Equal(&table) {
				log.Fatal("stored push table differs from a fresh build")
			}
			log.Printf("Loaded push table v%d generated %s", meta.Version, meta.GeneratedAt.Format(time.RFC3339))
			table = stored
		}
		if *store {
			if err := s.SavePushTable(table); err != nil {
				log.Fatal("could not store push table: ", err)
			}
			log.Printf("Push table stored")
		}
	}

	if *verify {
		if err := oracle.VerifyAll(&table, oracle.Default(), oracle.VerificationPositions); err != nil {
			log.Fatal("verification failed: ", err)
		}
		log.Printf("Push table agrees with %d generators on %d positions",
			len(oracle.Default()), len(oracle.VerificationPositions))
	}

	if *diagram != "" {
		if err := writeDiagram(&table); err != nil {
			log.Fatal("could not write diagram: ", err)
		}
	}

	addr := *serveAddr
	if addr == "" {
		addr = os.Getenv("PAWNGEN_ADDR")
	}
	if addr != "" {
		serve(addr, table)
		return
	}

	if err := writeTable(&table); err != nil {
		log.Fatal(err)
	}
}

func openStorage() (*storage.Storage, error) {
	dir := *dbDir
	if dir == "" {
		dir = os.Getenv("PAWNGEN_DB")
	}
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.Open(dir)
}

func writeTable(t *board.PushTable) error {
	if *outPath == "" {
		return emit(os.Stdout, t, *formatName, *pkgName)
	}
	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	if err := emit(f, t, *formatName, *pkgName); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeDiagram(t *board.PushTable) error {
	sq, err := board.ParseSquare(*squareName)
	if err != nil {
		return err
	}
	c, err := board.ParseColor(*colorName)
	if err != nil {
		return err
	}
	mask, err := t.Lookup(sq, c)
	if err != nil {
		return err
	}

	f, err := os.Create(*diagram)
	if err != nil {
		return err
	}
	if err := render.WritePNG(f, sq, mask, render.Options{Size: 400}); err != nil {
		f.Close()
		return err
	}
	log.Printf("Diagram for %s pawn on %s written to %s", c, sq, *diagram)
	return f.Close()
}

func serve(addr string, table board.PushTable) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(table, os.Stdout),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Printf("Serving push tables on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
