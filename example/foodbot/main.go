package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/redis/go-redis/v9"
	"github.com/tbxark/foodbot/bot"
	"github.com/tbxark/foodbot/dialog"
	"github.com/tbxark/foodbot/intent"
	"github.com/tbxark/foodbot/places"
	"github.com/tbxark/foodbot/profile"
	"github.com/tbxark/foodbot/store"
	"github.com/tbxark/foodbot/types"
)

func main() {
	conf := flag.String("config", "config.json", "path to config file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()
	config, err := loadConfig(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelInfo)
	}
	if err := startApp(context.Background(), config); err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func startApp(ctx context.Context, config *Config) error {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		Model:   config.Model,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		return err
	}
	oracle, err := intent.NewToolOracle(cm)
	if err != nil {
		return err
	}

	profiles, stacks := buildCaches(config)
	dispatcher := bot.NewDispatcher(bot.Config{
		Oracle:   oracle,
		Places:   places.NewHTTPClient(config.PlacesBaseURL, config.PlacesAPIKey),
		Profiles: profiles,
		Stacks:   stacks,
	})

	sink := stdoutSink{}
	conversation := "local"
	welcome := &types.Turn{
		Type:           types.ActivityConversationUpdate,
		ConversationID: conversation,
		Recipient:      types.ChannelAccount{ID: "foodbot"},
		MembersAdded:   []types.ChannelAccount{{ID: "user"}},
	}
	if err := dispatcher.OnTurn(ctx, welcome, sink); err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		turn := &types.Turn{
			Type:           types.ActivityMessage,
			Text:           line,
			ConversationID: conversation,
			From:           types.ChannelAccount{ID: "user"},
			Recipient:      types.ChannelAccount{ID: "foodbot"},
		}
		if err := dispatcher.OnTurn(ctx, turn, sink); err != nil {
			return err
		}
	}
}

func buildCaches(config *Config) (store.Cache[profile.UserProfile], store.Cache[dialog.Stack]) {
	if config.RedisAddr == "" {
		return store.NewMemory[profile.UserProfile](), store.NewMemory[dialog.Stack]()
	}
	rdb := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
	return store.NewRedis[profile.UserProfile](rdb, 0), store.NewRedis[dialog.Stack](rdb, 0)
}

type stdoutSink struct{}

func (stdoutSink) Send(ctx context.Context, activity *types.Activity) error {
	fmt.Println(bot.RenderText(activity))
	return nil
}
