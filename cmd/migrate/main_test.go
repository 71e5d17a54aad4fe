package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fireplay/fireplay-backend/pkg/config"
	"github.com/fireplay/fireplay-backend/pkg/db"
)

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.command != "up" || opts.dir == "" {
		t.Fatalf("unexpected defaults %+v", opts)
	}
	if _, err := parseFlags([]string{"-nope"}, io.Discard); err == nil {
		t.Fatal("expected unknown flag error")
	}
}

func TestRunCreateAndValidateWithoutDatabase(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	if err := run(context.Background(), options{command: "create", dir: dir, name: "cart index"}, &out); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out.String(), "_cart_index.sql") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if err := run(context.Background(), options{command: "validate", dir: dir}, &out); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	cases := []options{
		{command: "create", dir: t.TempDir()},
		{command: "version"},
		{command: "redo"},
	}
	for _, opts := range cases {
		if err := run(context.Background(), opts, io.Discard); err == nil {
			t.Fatalf("expected error for %+v", opts)
		}
	}
	if err := run(context.Background(), options{command: "validate", dir: filepath.Join(t.TempDir(), "missing")}, io.Discard); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}

func TestApplyRunsEmbeddedMigrations(t *testing.T) {
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{DSN: "file:cmd_migrate?mode=memory&cache=shared", MaxOpenConns: 1}, true, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatal(err)
	}

	if err := apply(ctx, sqlDB, client.Dialect(), options{command: "up"}); err != nil {
		t.Fatalf("up: %v", err)
	}
	if !client.DB().Migrator().HasTable("account_carts") {
		t.Fatal("expected account_carts table")
	}
}
