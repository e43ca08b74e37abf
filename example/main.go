package main

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/partial-coffee/go-ajax"
	"github.com/partial-coffee/go-ajax/ginajax"
)

//go:embed templates
var templates embed.FS

// clientScript applies an envelope: swaps sections, then runs the directives.
const clientScript = `document.addEventListener("submit", async (e) => {
	if (!e.target.matches("[data-ajax]")) return;
	e.preventDefault();
	const res = await fetch(e.target.action, {method: "POST", body: new FormData(e.target), headers: {"X-Requested-With": "XMLHttpRequest"}});
	const env = await res.json();
	if (env.dump) console.info(env);
	if (env.redirect) {
		const page = await fetch(env.redirect, {headers: {"X-Requested-With": "XMLHttpRequest", "X-Select": "header,content,footer"}});
		return apply(await page.json());
	}
	apply(env);
});
function apply(env) {
	for (const [id, html] of Object.entries(env.sections || {})) {
		const el = document.getElementById(id);
		if (el) el.innerHTML = html;
	}
	if (env.alert) alert(env.alert);
	if (env.scrollTo) document.getElementById(env.scrollTo)?.scrollIntoView();
	if (env.runJavascript) eval(env.runJavascript);
}
`

type todoList struct {
	mu    sync.Mutex
	items []string
}

func (l *todoList) add(title string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, title)
}

func (l *todoList) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.items...)
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ajax-example",
		Short: "Demo server for go-ajax partial responses",
	}

	var configPath, addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the todo demo",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, addr)
		},
	}
	serve.Flags().StringVar(&configPath, "config", "ajax.yaml", "path to the YAML configuration")
	serve.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	root.AddCommand(serve)
	return root
}

func runServe(configPath, addr string) error {
	fileCfg, err := ajax.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if len(fileCfg.Layouts) == 0 {
		fileCfg.Layouts = []string{"layouts/base.html"}
	}

	views, err := fs.Sub(templates, "templates")
	if err != nil {
		return fmt.Errorf("failed to open embedded templates: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).WithGroup("ajax")
	cfg, err := fileCfg.Config(views, logger)
	if err != nil {
		return err
	}

	if tr, ok := cfg.Renderer.(*ajax.TemplateRenderer); ok {
		tr.SetGlobalData(map[string]any{"Title": "go-ajax todos"})
	}

	svc := ajax.NewService(cfg)
	todos := &todoList{}

	router := gin.New()
	router.Use(gin.Recovery(), ginajax.Middleware(svc))

	router.GET("/static/ajax.js", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/javascript; charset=utf-8", []byte(clientScript))
	})

	router.GET("/todos", func(c *gin.Context) {
		ginajax.From(c, svc).SelectRequested().ScrollTo("footer")
		ginajax.RenderView(c, svc, "views/todos.html", map[string]any{"Todos": todos.all()})
	})

	router.POST("/todos", func(c *gin.Context) {
		a := ginajax.From(c, svc)

		title := strings.TrimSpace(c.PostForm("title"))
		if title == "" {
			if a.IsAsync() {
				ginajax.Respond(c, a.Alert("A todo needs a title").JSON())
				return
			}
			c.String(http.StatusUnprocessableEntity, "A todo needs a title")
			return
		}

		todos.add(title)
		ginajax.Redirect(c, svc, "/todos")
	})

	logger.Info("listening", "addr", addr, "connector", fileCfg.Connector)
	return router.Run(addr)
}
