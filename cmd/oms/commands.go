package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-oms/internal/bus"
	"github.com/rxtech-lab/argo-oms/internal/config"
	"github.com/rxtech-lab/argo-oms/internal/contract"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/protocol"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of the config file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the schema to `FILE` instead of stdout",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			schema, err := config.Schema()
			if err != nil {
				return err
			}

			if output := cmd.String("output"); output != "" {
				return os.WriteFile(output, schema, 0o644)
			}

			_, err = fmt.Fprintln(cmd.Root().Writer, string(schema))

			return err
		},
	}
}

func sendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Publish a NEW_ORDER command to a running engine",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Contract ticker or ticker index",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "direction",
				Aliases:  []string{"d"},
				Usage:    "buy or sell",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "offset",
				Usage: "open, close, close_today or close_yesterday",
				Value: "open",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "limit, market, best, fak or fok",
				Value: "limit",
			},
			&cli.IntFlag{
				Name:     "volume",
				Aliases:  []string{"v"},
				Usage:    "Order volume in contract units",
				Required: true,
			},
			&cli.FloatFlag{
				Name:    "price",
				Aliases: []string{"p"},
				Usage:   "Limit price. Ignored by market orders",
			},
		}, configFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, contracts, err := loadForProducer(cmd)
			if err != nil {
				return err
			}

			command, err := buildNewOrder(contracts, orderFlags{
				ticker:    cmd.String("ticker"),
				direction: cmd.String("direction"),
				offset:    cmd.String("offset"),
				orderType: cmd.String("type"),
				volume:    cmd.Int("volume"),
				price:     cmd.Float("price"),
			})
			if err != nil {
				return err
			}

			return publishCommand(ctx, cfg, command)
		},
	}
}

func cancelCommand() *cli.Command {
	return &cli.Command{
		Name:  "cancel",
		Usage: "Publish a cancel command to a running engine",
		Flags: append([]cli.Flag{
			&cli.UintFlag{
				Name:  "order-id",
				Usage: "Cancel one order",
			},
			&cli.StringFlag{
				Name:    "ticker",
				Aliases: []string{"t"},
				Usage:   "Cancel every order of a contract, by ticker or ticker index",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Cancel every order",
			},
		}, configFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, contracts, err := loadForProducer(cmd)
			if err != nil {
				return err
			}

			command, err := buildCancel(contracts, cmd.Uint("order-id"), cmd.String("ticker"), cmd.Bool("all"))
			if err != nil {
				return err
			}

			return publishCommand(ctx, cfg, command)
		},
	}
}

type orderFlags struct {
	ticker    string
	direction string
	offset    string
	orderType string
	volume    int64
	price     float64
}

func loadForProducer(cmd *cli.Command) (config.Config, *contract.Table, error) {
	cfg, err := config.Load(cmd.String("config"), cmd.String("env-file"))
	if err != nil {
		return cfg, nil, err
	}

	contracts, err := contract.Load(cfg.Contracts.Path, cfg.Contracts.Exchange, logger.NewNopLogger())
	if err != nil {
		return cfg, nil, err
	}

	return cfg, contracts, nil
}

// resolveContract accepts a ticker or a decimal ticker index.
func resolveContract(contracts contract.Lookup, ticker string) (types.Contract, error) {
	if c := contracts.GetByTicker(ticker); c.IsSome() {
		return c.Unwrap(), nil
	}

	if index, err := strconv.ParseUint(ticker, 10, 64); err == nil {
		if c := contracts.Get(index); c.IsSome() {
			return c.Unwrap(), nil
		}
	}

	return types.Contract{}, errors.Newf(errors.ErrCodeContractNotFound, "contract %s not found", ticker)
}

func buildNewOrder(contracts contract.Lookup, flags orderFlags) (protocol.TraderCommand, error) {
	c, err := resolveContract(contracts, flags.ticker)
	if err != nil {
		return protocol.TraderCommand{}, err
	}

	direction, err := parseDirection(flags.direction)
	if err != nil {
		return protocol.TraderCommand{}, err
	}

	offset, err := parseOffset(flags.offset)
	if err != nil {
		return protocol.TraderCommand{}, err
	}

	orderType, err := parseOrderType(flags.orderType)
	if err != nil {
		return protocol.TraderCommand{}, err
	}

	req := types.OrderRequest{
		TickerIndex: c.Index,
		Direction:   direction,
		Offset:      offset,
		Type:        orderType,
		Volume:      flags.volume,
		Price:       flags.price,
	}
	if err := req.Validate(); err != nil {
		return protocol.TraderCommand{}, err
	}

	if orderType == types.OrderTypeLimit && flags.price <= 0 {
		return protocol.TraderCommand{}, errors.New(errors.ErrCodeInvalidOrderRequest, "limit orders need a positive price")
	}

	return protocol.NewOrderCommand(protocol.NewOrder{
		TickerIndex: req.TickerIndex,
		Direction:   req.Direction,
		Offset:      req.Offset,
		Volume:      req.Volume,
		Type:        req.Type,
		Price:       req.Price,
	}), nil
}

func buildCancel(contracts contract.Lookup, orderID uint64, ticker string, all bool) (protocol.TraderCommand, error) {
	selected := 0

	for _, set := range []bool{orderID != 0, ticker != "", all} {
		if set {
			selected++
		}
	}

	if selected != 1 {
		return protocol.TraderCommand{}, errors.New(errors.ErrCodeInvalidParameter, "exactly one of --order-id, --ticker or --all is required")
	}

	switch {
	case orderID != 0:
		return protocol.CancelOrderCommand(orderID), nil
	case ticker != "":
		c, err := resolveContract(contracts, ticker)
		if err != nil {
			return protocol.TraderCommand{}, err
		}

		return protocol.CancelTickerCommand(c.Index), nil
	default:
		return protocol.CancelAllCommand(), nil
	}
}

func publishCommand(ctx context.Context, cfg config.Config, command protocol.TraderCommand) (err error) {
	log, err := logger.NewLoggerWithOptions(cfg.Logging)
	if err != nil {
		return err
	}

	if cfg.Bus.Type == bus.TypeMemory || cfg.Bus.Type == "" {
		log.Warn("The memory bus is local to this process, no engine will see the command")
	}

	payload, err := protocol.EncodeCommand(command)
	if err != nil {
		return err
	}

	b, err := bus.New(cfg.Bus, log)
	if err != nil {
		return err
	}

	defer func() {
		err = multierr.Append(err, b.Close())
	}()

	if err := b.Publish(ctx, protocol.CommandTopic, payload); err != nil {
		return err
	}

	log.Info("Command published",
		zap.String("type", command.Type.String()),
		zap.String("topic", protocol.CommandTopic),
	)

	return nil
}

func parseDirection(value string) (types.Direction, error) {
	switch normalize(value) {
	case "buy", "b", "long":
		return types.DirectionBuy, nil
	case "sell", "s", "short":
		return types.DirectionSell, nil
	default:
		return types.DirectionUnknown, errors.Newf(errors.ErrCodeInvalidParameter, "unknown direction %q", value)
	}
}

func parseOffset(value string) (types.Offset, error) {
	switch normalize(value) {
	case "open":
		return types.OffsetOpen, nil
	case "close":
		return types.OffsetClose, nil
	case "closetoday":
		return types.OffsetCloseToday, nil
	case "closeyesterday":
		return types.OffsetCloseYesterday, nil
	default:
		return types.OffsetUnknown, errors.Newf(errors.ErrCodeInvalidParameter, "unknown offset %q", value)
	}
}

func parseOrderType(value string) (types.OrderType, error) {
	switch normalize(value) {
	case "limit":
		return types.OrderTypeLimit, nil
	case "market":
		return types.OrderTypeMarket, nil
	case "best":
		return types.OrderTypeBest, nil
	case "fak", "ioc":
		return types.OrderTypeFAK, nil
	case "fok":
		return types.OrderTypeFOK, nil
	default:
		return types.OrderTypeUnknown, errors.Newf(errors.ErrCodeInvalidParameter, "unknown order type %q", value)
	}
}

// normalize lowercases and drops separators so that CloseToday, close_today
// and close-today are equal.
func normalize(value string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(value))
}
