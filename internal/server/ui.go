package server

import (
	"fmt"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"
)

// registerUI serves the minimal document upload + search page used for
// manual testing against the RAG service.
func registerUI(e *echo.Echo, defaultFileID string) {
	e.GET("/ui", func(c echo.Context) error {
		page := fmt.Sprintf(uiTemplate, html.EscapeString(defaultFileID))
		return c.HTML(http.StatusOK, page)
	})
}

const uiTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>RAG Bridge</title>
    <style>body{font-family:sans-serif;max-width:720px;margin:2rem auto;} section{margin-bottom:2rem;} pre{background:#f4f4f4;padding:1rem;overflow:auto;}</style>
  </head>
  <body>
    <h1>RAG Bridge</h1>
    <section>
      <h2>Upload document</h2>
      <form id="upload-form">
        <input type="file" name="file" required />
        <input type="text" name="file_id" placeholder="file id" value="%s" />
        <button type="submit">Upload</button>
      </form>
    </section>
    <section>
      <h2>Indexed documents</h2>
      <button id="refresh-ids">Refresh</button>
      <pre id="ids"></pre>
    </section>
    <script>
      document.getElementById('upload-form').addEventListener('submit', async (e) => {
        e.preventDefault();
        const res = await fetch('/api/documents/upload', { method: 'POST', body: new FormData(e.target) });
        alert(res.ok ? 'uploaded' : 'upload failed: ' + res.status);
      });
      document.getElementById('refresh-ids').addEventListener('click', async () => {
        const res = await fetch('/api/documents/ids');
        document.getElementById('ids').textContent = JSON.stringify(await res.json(), null, 2);
      });
    </script>
  </body>
</html>`
