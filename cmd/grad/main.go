// Package main provides the grad CLI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorgonia.org/tensor"

	"github.com/born-ml/grad/internal/autodiff"
	"github.com/born-ml/grad/internal/data"
	"github.com/born-ml/grad/internal/nn"
	"github.com/born-ml/grad/internal/optim"
	"github.com/born-ml/grad/internal/serialization"
	"github.com/born-ml/grad/internal/train"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "version":
		fmt.Printf("grad %s\n", version)
	case "demo":
		runDemo()
	case "mlp":
		runMLP(args)
	case "cnn":
		runCNN(args)
	case "load":
		runLoad(args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("grad - scalar reverse-mode autodiff")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Print gradients of a few small expressions")
	fmt.Println("  mlp        Train a 3-4-4-1 MLP on a toy regression set")
	fmt.Println("  cnn        Train a small CNN on synthetic bar images")
	fmt.Println("  load       Inspect a checkpoint")
}

func runDemo() {
	s := autodiff.NewScope()

	x := s.Source(10)
	y := s.Mul(x, x)
	z := s.Add(x, y)
	autodiff.Backward(z)
	fmt.Printf("z = x + x*x at x=10: dz/dx = %f, dz/dy = %f\n", x.Grad(), y.Grad())

	a := s.Source(3)
	autodiff.Backward(s.Add(a, a))
	fmt.Printf("b = a + a: db/da = %f\n", a.Grad())

	p := s.Source(10)
	autodiff.Backward(s.Pow(p, 3))
	fmt.Printf("x**3 at x=10: d/dx = %f\n", p.Grad())

	n, d := s.Source(10), s.Source(20)
	autodiff.Backward(s.Div(n, d))
	fmt.Printf("x/y at (10, 20): d/dx = %f, d/dy = %f\n", n.Grad(), d.Grad())

	for _, v := range []float64{10, 0, -10} {
		r := s.Source(v)
		autodiff.Backward(s.Relu(r))
		fmt.Printf("relu at %g: d/dx = %f\n", v, r.Grad())
	}
}

func runMLP(args []string) {
	fs := flag.NewFlagSet("mlp", flag.ExitOnError)
	iters := fs.Int("iters", 6, "Number of gradient descent iterations")
	lr := fs.Float64("lr", 0.05, "Learning rate")
	seed := fs.Uint64("seed", 42, "Weight initialization seed")
	kaiming := fs.Bool("kaiming", false, "Use Kaiming-uniform initialization instead of U(-1, 1)")
	save := fs.String("save", "", "Write a checkpoint to this path after training")
	_ = fs.Parse(args)

	xs := tensor.New(tensor.WithShape(4, 3), tensor.WithBacking([]float64{
		2, 3, -1,
		3, -1, 0.5,
		0.5, 1, 1,
		1, 1, -1,
	}))
	ys := tensor.New(tensor.WithShape(4, 1), tensor.WithBacking([]float64{1, -1, -1, 1}))
	samples, err := train.SamplesFromTensors(xs, ys)
	if err != nil {
		log.Fatalf("Failed to build samples: %v", err)
	}

	scheme := nn.InitUniform
	if *kaiming {
		scheme = nn.InitKaiming
	}
	params := autodiff.NewScope()
	mlp := nn.NewMLP(params, 3, []int{4, 4, 1}, nn.NewRand(*seed), scheme)
	opt := optim.NewSGD(mlp.Parameters(), optim.SGDConfig{LR: *lr})
	tr := train.New(params, mlp, opt, train.Config{})

	fmt.Printf("MLP 3-4-4-1, %d parameters, %s init, lr=%g\n", nn.NumParams(mlp), scheme, *lr)
	for range *iters {
		preds := make([]string, len(samples))
		for i, s := range samples {
			preds[i] = fmt.Sprintf("%f", tr.Predict(s.Input)[0])
		}
		fmt.Printf("y_pred: [%s]\n", strings.Join(preds, ", "))
		fmt.Printf("Loss: %f\n", tr.Step(samples))
	}

	if *save != "" {
		if err := tr.Save(*save, "MLP", *iters-1); err != nil {
			log.Fatalf("Failed to save checkpoint: %v", err)
		}
		fmt.Printf("Saved checkpoint to %s\n", *save)
	}
}

// barImage draws a horizontal (class 0) or vertical (class 1) bar at offset.
func barImage(size, offset, class int) tensor.Tensor {
	px := make([]float64, size*size)
	for k := range size {
		if class == 0 {
			px[offset*size+k] = 1
		} else {
			px[k*size+offset] = 1
		}
	}
	return tensor.New(tensor.WithShape(1, size, size), tensor.WithBacking(px))
}

func runCNN(args []string) {
	fs := flag.NewFlagSet("cnn", flag.ExitOnError)
	size := fs.Int("size", 5, "Image height and width")
	epochs := fs.Int("epochs", 40, "Number of full-batch epochs")
	lr := fs.Float64("lr", 0.02, "Learning rate for Adam optimizer")
	seed := fs.Uint64("seed", 3, "Weight initialization seed")
	save := fs.String("save", "", "Write a checkpoint to this path after training")
	_ = fs.Parse(args)

	var samples []train.Sample
	for offset := range *size {
		for class := range 2 {
			img, err := data.Raw(barImage(*size, offset, class))
			if err != nil {
				log.Fatalf("Failed to build image: %v", err)
			}
			target := []float64{0, 0}
			target[class] = 1
			samples = append(samples, train.Sample{Input: img, Target: target})
		}
	}

	params := autodiff.NewScope()
	cnn := nn.NewSmallCNN(params, nn.SmallCNNConfig{
		InChannels: 1,
		Height:     *size,
		Width:      *size,
		Channels:   []int{4},
		Head:       []int{2},
		Init:       nn.InitKaiming,
	}, nn.NewRand(*seed))
	opt := optim.NewAdam(cnn.Parameters(), optim.AdamConfig{LR: *lr})
	tr := train.New(params, cnn, opt, train.Config{Loss: train.CrossEntropy})

	fmt.Printf("SmallCNN on %d synthetic %dx%d images, %d parameters\n", len(samples), *size, *size, nn.NumParams(cnn))
	tr.Fit(samples, *epochs, func(epoch int, loss float64) {
		if epoch%10 == 0 || epoch == *epochs-1 {
			fmt.Printf("Epoch %3d/%d: Loss=%.4f, Acc=%.2f%%\n", epoch+1, *epochs, loss, accuracy(tr, samples)*100)
		}
	})

	if *save != "" {
		if err := tr.Save(*save, "SmallCNN", *epochs-1); err != nil {
			log.Fatalf("Failed to save checkpoint: %v", err)
		}
		fmt.Printf("Saved checkpoint to %s\n", *save)
	}
}

func accuracy(tr *train.Trainer, samples []train.Sample) float64 {
	var correct int
	for _, s := range samples {
		if argmax(tr.Predict(s.Input)) == argmax(s.Target) {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

func runLoad(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	values := fs.Bool("values", false, "Print every stored value")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		log.Fatal("usage: grad load [-values] <checkpoint>")
	}

	ckpt, err := serialization.LoadFile(fs.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load checkpoint: %v", err)
	}

	h := ckpt.Header
	fmt.Printf("Model:      %s\n", h.ModelType)
	fmt.Printf("Format:     v%d\n", h.FormatVersion)
	fmt.Printf("Created:    %s\n", h.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Parameters: %d\n", h.ParamCount)
	if meta := h.Checkpoint; meta != nil {
		fmt.Printf("Training:   epoch %d, step %d, loss %.6f (%s, lr=%g)\n",
			meta.Epoch, meta.Step, meta.Loss, meta.Optimizer, meta.LR)
	}
	for k, v := range h.Metadata {
		fmt.Printf("  %s = %s\n", k, v)
	}
	if *values {
		for i, v := range ckpt.Values {
			fmt.Printf("%6d  % .17g\n", i, v)
		}
	}
}
