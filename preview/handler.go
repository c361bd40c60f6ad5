package preview

import (
	"image"
	"image/gif"
	"net/http"
	"unicode/utf8"

	"petbots.fbbdev.it/fontcreator/bitfont"
	"petbots.fbbdev.it/fontcreator/log"
)

// Handler serves previews of fs. The query carries text, format (gif by
// default, png or bmp) and for gif the animation parameters speed, width
// and blank.
func Handler(fs *bitfont.FontSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		query := r.URL.Query()

		text := query.Get("text")
		if utf8.RuneCountInString(text) > MaxChars {
			http.NotFound(w, r)
			return
		}

		format := query.Get("format")
		if format == "" {
			format = "gif"
		}
		contentType, ok := Formats[format]
		if !ok {
			http.NotFound(w, r)
			return
		}

		params, ok := ParseParams(query)
		if !ok {
			http.NotFound(w, r)
			return
		}

		var anim *gif.GIF
		var img image.Image
		var err error
		if format == "gif" {
			anim, err = MakeGif(fs, text, params)
		} else {
			img, err = DotMatrix(fs, text)
		}
		if err != nil {
			log.ErrorLogger.Print("preview: ", err)
			log.WarningLogger.Printf("%s generation failed", format)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Add("Content-Type", contentType)
		w.Header().Add("Cache-Control", "max-age=1, s-maxage=3600, public, immutable, stale-while-revalidate")

		if anim != nil {
			err = gif.EncodeAll(w, anim)
		} else {
			err = Encode(w, img, format)
		}
		if err != nil {
			log.ErrorLogger.Print(format+"/http: ", err)
			log.WarningLogger.Print("could not encode image or write http response")
			// just in case the encoder did not write anything
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
}
