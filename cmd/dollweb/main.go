// Command dollweb serves a paper-doll editing session over HTTP.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	_ "golang.org/x/net/trace"

	"badc0de.net/pkg/go-paperdoll/ingest"
	"badc0de.net/pkg/go-paperdoll/layers"
	"badc0de.net/pkg/go-paperdoll/session"
	"badc0de.net/pkg/go-paperdoll/web"
	"badc0de.net/pkg/go-paperdoll/xmls"
)

var (
	listenAddress  = flag.String("listen_address", ":8080", "http listen address for dollweb")
	debugWebServer = flag.String("debug_web_server_listen_address", "", "where the debug server will listen")
	categoriesXML  = flag.String("categories_xml", "", "optional XML file overriding the default categories")
	spriteName     = flag.String("name", session.DefaultName, "suggested export file name, without extension")
	fps            = flag.Int("fps", session.DefaultFPS, "preview frames per second")
	scale          = flag.Int("scale", session.DefaultScale, "preview magnification")

	spritesDir string
)

func main() {
	ingest.SetupDirFlag("sprites", "sprites_dir", &spritesDir)
	flagutil.Parse()

	categories := layers.DefaultCategories
	if *categoriesXML != "" {
		var err error
		if categories, err = xmls.ReadCategoriesFile(*categoriesXML); err != nil {
			glog.Exitf("reading categories: %v", err)
		}
	}

	s := session.New(session.Options{
		Categories: categories,
		Name:       *spriteName,
		FPS:        *fps,
		Scale:      *scale,
	})
	defer s.Close()

	if spritesDir != "" {
		entries, err := ingest.Dir(spritesDir, categories)
		if err != nil {
			glog.Exitf("loading sprites: %v", err)
		}
		if err := ingest.AddAll(s, entries); err != nil {
			glog.Exitf("loading sprites: %v", err)
		}
		glog.Infof("loaded %d sheets from %s", len(entries), spritesDir)
	}

	if *debugWebServer != "" {
		http.HandleFunc("/debug/minimetrics", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "runtime.NumGoroutine(): %d\n", runtime.NumGoroutine())
		})
		go http.ListenAndServe(*debugWebServer, nil)
	}

	r := mux.NewRouter()
	web.NewHandler(s).RegisterRoutes(r)

	glog.Infof("dollweb listening on %s", *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.CombinedLoggingHandler(os.Stderr, r)))
}
