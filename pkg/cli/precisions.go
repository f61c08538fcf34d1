/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/tuning-tables/pkg/database"
	"github.com/NVIDIA/tuning-tables/pkg/grouper"
	"github.com/NVIDIA/tuning-tables/pkg/serializer"
)

type precisionInfo struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

func precisionsCmd() *cli.Command {
	return &cli.Command{
		Name:  "precisions",
		Usage: "List precision codes",
		Description: `Lists the supported precision codes and their names. With --database, lists
the precisions present in the database instead, failing on unknown codes.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Usage:   "Path/URI of a tuning database to inspect",
			},
			formatFlag(),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			codes := database.SupportedPrecisions()
			if uri := cmd.String("database"); uri != "" {
				db, err := serializer.Load[database.Database](ctx, uri, cmd.String("kubeconfig"))
				if err != nil {
					return err
				}
				codes = grouper.Precisions(db.Sections)
			}

			infos := make([]precisionInfo, 0, len(codes))
			for _, code := range codes {
				p, err := database.ParsePrecision(code)
				if err != nil {
					return err
				}
				infos = append(infos, precisionInfo{Code: p.Code(), Name: p.Name()})
			}

			return serializer.NewWriter(outFormat, outWriter(cmd)).Serialize(ctx, infos)
		},
	}
}
