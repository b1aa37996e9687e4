package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/ojasva22/frontend-deployment/internal/config"
	"github.com/ojasva22/frontend-deployment/internal/photos"
	"github.com/ojasva22/frontend-deployment/internal/remote"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	app := cli.NewApp()
	app.Name = "galeria"
	app.Usage = "envia e busca fotos pelo mesmo pipeline do servidor"
	app.Flags = []cli.Flag{
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "tempo máximo da chamada remota",
			Value: time.Minute,
		},
	}
	app.Commands = []*cli.Command{
		uploadCmd,
		searchCmd,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("galeria encerrada com erro")
	}
}

var uploadCmd = &cli.Command{
	Name:      "upload",
	Usage:     "envia uma foto local",
	ArgsUsage: "<arquivo>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "labels",
			Usage: "labels personalizadas separadas por vírgula",
		},
		&cli.StringFlag{
			Name:  "content-type",
			Usage: "MIME declarado; padrão pela extensão do arquivo",
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return cli.ShowSubcommandHelp(cctx)
		}

		uploader, err := buildUploader(cctx.Context)
		if err != nil {
			return err
		}

		file, err := loadFile(cctx.Args().First(), cctx.String("content-type"))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cctx.Context, cctx.Duration("timeout"))
		defer cancel()

		out := uploader.Handle(ctx, photos.UploadForm{File: file, Labels: cctx.String("labels")}, &consolePresenter{w: os.Stdout})
		if out.State != photos.StateSucceeded {
			return cli.Exit("", 1)
		}
		fmt.Fprintln(os.Stdout, out.ObjectKey)
		return nil
	},
}

var searchCmd = &cli.Command{
	Name:      "search",
	Usage:     "busca fotos por texto",
	ArgsUsage: "<consulta>",
	Action: func(cctx *cli.Context) error {
		searcher, err := buildSearcher(cctx.Context)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cctx.Context, cctx.Duration("timeout"))
		defer cancel()

		query := strings.Join(cctx.Args().Slice(), " ")
		out := searcher.Handle(ctx, query, &consolePresenter{w: os.Stdout})
		if out.State != photos.StateSucceeded {
			return cli.Exit("", 1)
		}
		return nil
	},
}

func loadClient(ctx context.Context) (*config.Config, remote.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	client, err := remote.NewFromConfig(ctx, cfg.Remote)
	if err != nil {
		return nil, nil, fmt.Errorf("remote: %w", err)
	}
	return cfg, client, nil
}

func buildUploader(ctx context.Context) (*photos.Uploader, error) {
	cfg, client, err := loadClient(ctx)
	if err != nil {
		return nil, err
	}
	return photos.NewUploader(client, cfg.APIKey, log.Logger), nil
}

func buildSearcher(ctx context.Context) (*photos.Searcher, error) {
	cfg, client, err := loadClient(ctx)
	if err != nil {
		return nil, err
	}
	return photos.NewSearcher(client, cfg.APIKey, log.Logger), nil
}

func loadFile(path, contentType string) (*photos.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.New("caminho é um diretório")
	}

	file := &photos.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
	}
	if file.ContentType == "" {
		file.ContentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	}
	if file.Size <= photos.MaxFileSizeBytes {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		file.Data = data
	}
	return file, nil
}

// consolePresenter imprime status e resultados no terminal.
type consolePresenter struct {
	w io.Writer
}

func (p *consolePresenter) ShowStatus(message string, severity photos.Severity) {
	fmt.Fprintf(p.w, "[%s] %s\n", severity, message)
}

func (p *consolePresenter) ShowSearchText(text string) {
	fmt.Fprintln(p.w, text)
}

func (p *consolePresenter) RenderResults(results []photos.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(p.w, photos.MessageNoResults)
		return
	}
	for _, r := range results {
		fmt.Fprintln(p.w, r.URL)
		fmt.Fprintf(p.w, "  %s%s\n", photos.MessageLabelsTemplate, strings.Join(r.Labels, ", "))
	}
}
