package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ChatPage is the single-page client: pick a game, read its history and ask
// questions over the game's chat socket.
func ChatPage(data ChatPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, chatPageHead); err != nil {
			return err
		}
		if _, err := io.WriteString(w, chatPageBody); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `
    <footer class="footer">Board Game Rules Assistant &middot; v`+templ.EscapeString(data.Version)+`</footer>
`); err != nil {
			return err
		}
		_, err := io.WriteString(w, chatPageScript)
		return err
	})
}

const chatPageHead = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Board Game Rules Assistant</title>
    <style>
      * { box-sizing: border-box; }
      body { margin: 0; font-family: system-ui, sans-serif; background: #f5f1ea; color: #2b2118; }
      .header { display: flex; align-items: center; gap: 0.6rem; padding: 1rem 1.5rem; background: #5b3a1e; color: #fff; }
      .header .logo { font-size: 1.6rem; }
      .header h1 { margin: 0; font-size: 1.2rem; }
      .shell { max-width: 860px; margin: 0 auto; padding: 1.5rem; }
      .hero p { margin: 0 0 1rem; color: #6b5644; }
      .picker { display: flex; gap: 0.5rem; margin-bottom: 1rem; }
      .picker select { flex: 1; padding: 0.5rem; }
      .status { font-size: 0.85rem; color: #6b5644; min-height: 1.2rem; }
      .chat { background: #fff; border-radius: 12px; padding: 1rem; min-height: 320px; max-height: 60vh; overflow-y: auto; box-shadow: 0 1px 4px rgba(0,0,0,0.08); }
      .bubble { max-width: 80%; padding: 0.6rem 0.9rem; border-radius: 14px; margin: 0.4rem 0; white-space: pre-wrap; line-height: 1.4; }
      .bubble.user { margin-left: auto; background: #5b3a1e; color: #fff; border-bottom-right-radius: 4px; }
      .bubble.bot { background: #efe6da; border-bottom-left-radius: 4px; }
      .bubble.error { background: #fde2e1; color: #8a1c14; }
      .bubble time { display: block; font-size: 0.7rem; opacity: 0.7; margin-top: 0.3rem; }
      .ask { display: flex; gap: 0.5rem; margin-top: 1rem; }
      .ask textarea { flex: 1; padding: 0.6rem; resize: vertical; min-height: 3rem; font: inherit; }
      .ask button { padding: 0 1.2rem; background: #5b3a1e; color: #fff; border: 0; border-radius: 8px; cursor: pointer; }
      .ask button:disabled { opacity: 0.5; cursor: default; }
      .footer { text-align: center; padding: 1.5rem; font-size: 0.8rem; color: #8a7663; }
    </style>
  </head>
  <body>
`

const chatPageBody = `    <header class="header">
      <span class="logo">&#9823;</span>
      <h1>Board Game Rules Assistant</h1>
    </header>

    <main class="shell">
      <section class="hero">
        <p>Settle rules disputes in seconds: pick a game and ask about its official rules or your house variants.</p>
      </section>

      <div class="picker">
        <select id="gameSelect"><option value="">Loading games...</option></select>
      </div>
      <div id="status" class="status"></div>

      <section id="chat" class="chat"></section>

      <form id="askForm" class="ask">
        <textarea id="question" placeholder="Ask a rules question..." required></textarea>
        <button id="askButton" type="submit" disabled>Ask</button>
      </form>
    </main>
`

const chatPageScript = `
    <script>
      const gameSelect = document.getElementById("gameSelect");
      const statusLine = document.getElementById("status");
      const chat = document.getElementById("chat");
      const askForm = document.getElementById("askForm");
      const questionInput = document.getElementById("question");
      const askButton = document.getElementById("askButton");
      let socket = null;
      let pending = false;

      function bubble(kind, text, timestamp) {
        const el = document.createElement("div");
        el.className = "bubble " + kind;
        el.textContent = text;
        if (timestamp) {
          const t = document.createElement("time");
          t.textContent = new Date(timestamp).toLocaleString();
          el.appendChild(t);
        }
        chat.appendChild(el);
        chat.scrollTop = chat.scrollHeight;
      }

      async function loadGames() {
        const res = await fetch("/api/games");
        const games = await res.json();
        gameSelect.innerHTML = "";
        if (!res.ok || games.length === 0) {
          const opt = document.createElement("option");
          opt.value = "";
          opt.textContent = res.ok ? "No games yet" : (games.message || "Failed to load games");
          gameSelect.appendChild(opt);
          return;
        }
        for (const game of games) {
          const opt = document.createElement("option");
          opt.value = game.id;
          opt.textContent = game.name + " (" + game.question_count + " questions)";
          gameSelect.appendChild(opt);
        }
        selectGame(gameSelect.value);
      }

      async function loadHistory(gameId) {
        chat.innerHTML = "";
        const res = await fetch("/api/games/" + gameId + "/questions?limit=20");
        const items = await res.json();
        if (!res.ok) {
          bubble("error", items.message || "Failed to load history");
          return;
        }
        for (const item of items.reverse()) {
          bubble("user", item.question, item.created_at);
          bubble("bot", item.answer);
        }
      }

      function connect(gameId) {
        if (socket) {
          socket.onclose = null;
          socket.close();
        }
        askButton.disabled = true;
        const scheme = location.protocol === "https:" ? "wss://" : "ws://";
        socket = new WebSocket(scheme + location.host + "/ws/games/" + gameId + "/chat");
        socket.onopen = () => {
          statusLine.textContent = "Connected";
          askButton.disabled = false;
        };
        socket.onclose = () => {
          statusLine.textContent = "Disconnected, retrying...";
          askButton.disabled = true;
          setTimeout(() => connect(gameId), 2000);
        };
        socket.onmessage = (event) => {
          const msg = JSON.parse(event.data);
          if (msg.type === "answer") {
            pending = false;
            statusLine.textContent = "Connected";
            bubble("bot", msg.payload.answer, msg.payload.timestamp);
          } else if (msg.type === "error") {
            pending = false;
            statusLine.textContent = "Connected";
            bubble("error", msg.payload.message);
          } else if (msg.type === "question_answered" && !pending) {
            bubble("user", msg.payload.question, msg.payload.created_at);
            bubble("bot", msg.payload.answer);
          }
        };
      }

      function selectGame(gameId) {
        if (!gameId) {
          return;
        }
        loadHistory(gameId);
        connect(gameId);
      }

      gameSelect.addEventListener("change", () => selectGame(gameSelect.value));

      askForm.addEventListener("submit", (event) => {
        event.preventDefault();
        const question = questionInput.value.trim();
        if (!question || !socket || socket.readyState !== WebSocket.OPEN) {
          return;
        }
        pending = true;
        bubble("user", question, new Date().toISOString());
        statusLine.textContent = "Thinking...";
        socket.send(JSON.stringify({ type: "ask", payload: { question } }));
        questionInput.value = "";
      });

      loadGames();
    </script>
  </body>
</html>
`
