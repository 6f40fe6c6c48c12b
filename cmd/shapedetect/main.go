// Command shapedetect detects geometric primitives in an ASCII PCD file
// with normals and prints the extracted shapes.
package main

import (
	"context"
	"os"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"

	"go.viam.com/shapeseg/pointcloud"
	"go.viam.com/shapeseg/segmentation"
	"go.viam.com/shapeseg/shape"
)

func main() {
	logger := golog.NewLogger("shapedetect")
	app := &cli.App{
		Name:      "shapedetect",
		Usage:     "detect planes, spheres, cylinders, cones and tori in a point cloud",
		ArgsUsage: "<input.pcd>",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "probability", Value: 0.01, Usage: "maximum overlook probability per shape"},
			&cli.IntFlag{Name: "min-points", Value: 200, Usage: "minimum support for a shape"},
			&cli.Float64Flag{Name: "epsilon", Value: 0.01, Usage: "maximum point-to-surface distance"},
			&cli.Float64Flag{Name: "normal-threshold", Value: 0.1, Usage: "maximum normal deviation (1-|cos|)"},
			&cli.Float64Flag{Name: "cluster-epsilon", Value: 0.05, Usage: "maximum intra-cluster gap"},
			&cli.Int64Flag{Name: "seed", Usage: "random seed for reproducible runs"},
			&cli.StringSliceFlag{
				Name:  "kind",
				Value: cli.NewStringSlice("plane", "sphere", "cylinder", "cone", "torus"),
				Usage: "shape families to detect",
			},
		},
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 1 {
				return cli.Exit("expected exactly one input PCD path", 1)
			}
			return run(cCtx, logger)
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

func kindByName(name string) (shape.Kind, bool) {
	switch name {
	case "plane":
		return shape.NewPlaneKind(), true
	case "sphere":
		return shape.NewSphereKind(), true
	case "cylinder":
		return shape.NewCylinderKind(), true
	case "cone":
		return shape.NewConeKind(), true
	case "torus":
		return shape.NewTorusKind(), true
	}
	return nil, false
}

func run(cCtx *cli.Context, logger golog.Logger) error {
	in, err := os.Open(cCtx.Args().First())
	if err != nil {
		return err
	}
	defer in.Close()
	cloud, err := pointcloud.ReadPCD(in)
	if err != nil {
		return err
	}
	logger.Infof("loaded %d points", cloud.Size())

	var opts []segmentation.Option
	if cCtx.IsSet("seed") {
		opts = append(opts, segmentation.WithSeed(cCtx.Int64("seed")))
	}
	detector, err := segmentation.NewDetector(cloud, logger, opts...)
	if err != nil {
		return err
	}
	for _, name := range cCtx.StringSlice("kind") {
		kind, ok := kindByName(name)
		if !ok {
			return cli.Exit("unknown shape kind "+name, 1)
		}
		if err := detector.RegisterKind(kind); err != nil {
			return err
		}
	}

	cfg := segmentation.Config{
		Probability:     cCtx.Float64("probability"),
		MinPoints:       cCtx.Int("min-points"),
		Epsilon:         cCtx.Float64("epsilon"),
		NormalThreshold: cCtx.Float64("normal-threshold"),
		ClusterEpsilon:  cCtx.Float64("cluster-epsilon"),
	}
	if err := detector.Detect(context.Background(), cfg); err != nil {
		return err
	}

	for i, s := range detector.Shapes() {
		logger.Infof("shape %d: %s with %d points", i, s.Surface.Kind(), len(s.Indices))
	}
	logger.Infof("%d points unassigned", len(detector.UnassignedIndices()))
	return nil
}
