package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/golang-jwt/jwt/v5"

	"skirmish/server/application"
	"skirmish/server/domain"
	"skirmish/utils"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := utils.GetEnvDefault("ADDR", "localhost")
	port := utils.GetEnvDefault("PORT", "9090")
	botCountStr := utils.GetEnvDefault("BOT_COUNT", "3")
	botCount, err := strconv.Atoi(botCountStr)
	if err != nil {
		slog.Error("invalid BOT_COUNT", "value", botCountStr)
		os.Exit(1)
	}
	codec, err := domain.NewCodec(utils.GetEnvDefault("WIRE_CODEC", "json"))
	if err != nil {
		slog.Error("invalid WIRE_CODEC", "err", err)
		os.Exit(1)
	}

	secret := []byte(utils.GetEnvDefault("AUTH_SECRET", ""))

	serverURL := fmt.Sprintf("ws://%s:%s/ws", addr, port)
	slog.Info("starting bots", "count", botCount, "server", serverURL, "codec", codec.Name())

	var wg sync.WaitGroup
	for i := range botCount {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runBot(ctx, serverURL, codec, secret, id)
		}(i)
	}

	wg.Wait()
	slog.Info("all bots stopped")
}

func runBot(ctx context.Context, serverURL string, codec domain.Codec, secret []byte, id int) {
	logger := slog.With("botID", id)

	for {
		if ctx.Err() != nil {
			return
		}
		err := botSession(ctx, serverURL, codec, dialOptions(secret, id), logger)
		if err != nil && ctx.Err() == nil {
			logger.Warn("bot session ended, reconnecting", "err", err)
			time.Sleep(2 * time.Second)
		}
	}
}

// dialOptions はAUTH_SECRETがあればボット名をsubjectにしたトークンを付けます。
func dialOptions(secret []byte, id int) *websocket.DialOptions {
	if len(secret) == 0 {
		return nil
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("bot-%d", id),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	if err != nil {
		slog.Warn("failed to sign bot token", "botID", id, "err", err)
		return nil
	}
	return &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + token}},
	}
}

func botSession(ctx context.Context, serverURL string, codec domain.Codec, opts *websocket.DialOptions, logger *slog.Logger) error {
	conn, _, err := websocket.Dial(ctx, serverURL, opts)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.CloseNow()

	logger.Info("connected")

	world := application.NewBotWorld()
	controller := application.NewRuleBotController()
	messageType := websocket.MessageText
	if codec.Binary() {
		messageType = websocket.MessageBinary
	}

	readCtx, cancelRead := context.WithCancel(ctx)
	defer cancelRead()
	readErr := make(chan error, 1)

	// 受信ループ。Pingへの応答はconn.Readが行う
	go func() {
		for {
			_, data, err := conn.Read(readCtx)
			if err != nil {
				readErr <- err
				return
			}
			if err := world.Apply(codec, data); err != nil {
				logger.Debug("ignore message", "err", err)
			}
		}
	}()

	send := func(cmd application.Command) error {
		data, err := codec.Encode(cmd.CommandName(), cmd)
		if err != nil {
			return err
		}
		return conn.Write(ctx, messageType, data)
	}

	// 判断・送信ループ (30FPS相当)
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	var lastMove application.Vector2
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "shutdown")
			return nil
		case err := <-readErr:
			return fmt.Errorf("read: %w", err)
		case <-ticker.C:
			action, ok := world.Decide(controller)
			if !ok {
				continue
			}
			self, _ := world.Self()

			if action.Move != lastMove {
				if err := send(application.MoveInputCommand{Horizontal: action.Move.X, Vertical: action.Move.Y}); err != nil {
					return fmt.Errorf("write: %w", err)
				}
				lastMove = action.Move
			}
			if self.CurrentWeapon == application.WeaponHand {
				// 素手では撃てないので最初の武器スロットに持ち替える
				if err := send(application.InventorySwitchCommand{SlotIndex: 1}); err != nil {
					return fmt.Errorf("write: %w", err)
				}
			}
			if action.Aim.IsZero() {
				continue
			}
			if err := send(application.AimCommand{Direction: action.Aim}); err != nil {
				return fmt.Errorf("write: %w", err)
			}
			if action.Shoot {
				if err := send(application.ShootCommand{Position: self.Position, Direction: action.Aim}); err != nil {
					return fmt.Errorf("write: %w", err)
				}
			}
		}
	}
}
