// Command transformar uploads a Java mod jar to a conversion server,
// follows the job until it finishes, and downloads the resulting
// .mcaddon next to the input file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/masterotaku487-arch/transformar/client"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "conversion server base URL")
	outDir := flag.String("out", ".", "directory to write the .mcaddon to")
	interval := flag.Duration("interval", time.Second, "status poll interval")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <mod.jar>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	jarPath := flag.Arg(0)

	c := client.New(*serverURL)
	c.PollInterval = *interval

	ctx := context.Background()

	if _, err := c.Health(ctx); err != nil {
		log.Fatalf("server unreachable: %v", err)
	}

	jobID, err := c.SubmitFile(ctx, jarPath)
	if err != nil {
		log.Fatalf("submit failed: %v", err)
	}
	fmt.Printf("job %s submitted\n", jobID)

	done := make(chan error, 1)
	_, err = c.Watch(jobID, client.Callbacks{
		OnUpdate: func(job *client.Job) {
			fmt.Printf("  %3d%%  %s\n", job.Progress, job.Message)
		},
		OnComplete: func(job *client.Job) {
			fmt.Printf("  100%%  %s\n", job.Message)
			done <- nil
		},
		OnFailure: func(message string) {
			done <- fmt.Errorf("conversion failed: %s", message)
		},
	})
	if err != nil {
		log.Fatalf("watch failed: %v", err)
	}

	if err := <-done; err != nil {
		log.Fatal(err)
	}

	body, err := c.Download(ctx, jobID)
	if err != nil {
		log.Fatalf("download failed: %v", err)
	}
	defer body.Close()

	base := strings.TrimSuffix(filepath.Base(jarPath), filepath.Ext(jarPath))
	outPath := filepath.Join(*outDir, base+".mcaddon")

	out, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("create output file: %v", err)
	}
	defer out.Close()

	n, err := io.Copy(out, body)
	if err != nil {
		log.Fatalf("write output file: %v", err)
	}

	fmt.Printf("wrote %s (%.1f KB)\n", outPath, float64(n)/1024)
}
