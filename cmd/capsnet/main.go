// Command capsnet trains embeddings with the capsule-network losses and
// previews the image augmentation.
//
// Usage:
//
//	capsnet version
//	capsnet train [flags]        train a backbone on a CSV file or synthetic clusters
//	capsnet augment [flags]      apply ObfuscateDecolor to an image and save a grid
//	capsnet activations [flags]  plot the element-wise activations
//
// Every command accepts the klog flags, e.g. -v=1 for per-epoch logs.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	err := exceptions.TryCatch[error](func() {
		switch command {
		case "version":
			fmt.Printf("capsnet %s\n", version)
		case "train":
			must.M(runTrain(args))
		case "augment":
			must.M(runAugment(args))
		case "activations":
			must.M(runActivations(args))
		default:
			usage()
			os.Exit(2)
		}
	})
	klog.Flush()
	if err != nil {
		klog.Errorf("Error:\n%+v", err)
		klog.Flush()
		os.Exit(1)
	}
}

// newFlagSet returns a flag set for a subcommand with the klog flags added.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	klog.InitFlags(fs)
	return fs
}

func usage() {
	fmt.Fprintf(os.Stderr, "capsnet %s\n\n", version)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  version      Show version")
	fmt.Fprintln(os.Stderr, "  train        Train a backbone with one of the losses")
	fmt.Fprintln(os.Stderr, "  augment      Preview ObfuscateDecolor on an image")
	fmt.Fprintln(os.Stderr, "  activations  Plot the element-wise activations")
	fmt.Fprintln(os.Stderr, "\nRun 'capsnet <command> -h' for the flags of a command.")
}
