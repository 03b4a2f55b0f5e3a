package live

// Path is the default endpoint the hub is mounted on.
const Path = "/_vhead/live"

// ClientScript returns the browser side of the hub. It replaces every
// head element carrying the data-rh marker with the received markup and
// syncs the html and body attributes.
func ClientScript(path string) string {
	if path == "" {
		path = Path
	}
	return `<script>
(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;

    function parseAttrs(str) {
        var tmp = document.createElement('div');
        tmp.innerHTML = '<span ' + (str || '') + '></span>';
        return tmp.firstChild.attributes;
    }

    function syncAttrs(el, str) {
        var managed = (el.getAttribute('data-rh') || '').split(',').filter(Boolean);
        managed.forEach(function(name) { el.removeAttribute(name); });
        var attrs = parseAttrs(str);
        var names = [];
        for (var i = 0; i < attrs.length; i++) {
            if (attrs[i].name === 'data-rh') {
                continue;
            }
            el.setAttribute(attrs[i].name, attrs[i].value);
            names.push(attrs[i].name);
        }
        if (names.length) {
            el.setAttribute('data-rh', names.join(','));
        } else {
            el.removeAttribute('data-rh');
        }
    }

    function applyHead(msg) {
        var old = document.head.querySelectorAll('[data-rh]');
        old.forEach(function(n) { n.parentNode.removeChild(n); });
        document.head.insertAdjacentHTML('beforeend', msg.head || '');
        if (msg.title !== undefined) {
            document.title = msg.title;
        }
        syncAttrs(document.documentElement, msg.htmlAttributes);
        syncAttrs(document.body, msg.bodyAttributes);
    }

    function showError(msg) {
        clearError();
        var pre = document.createElement('pre');
        pre.id = 'vhead-error';
        pre.style.cssText = 'position:fixed;bottom:0;left:0;right:0;margin:0;padding:12px;background:#300;color:#fdd;font:12px monospace;z-index:999999;white-space:pre-wrap;';
        pre.textContent = (msg.file ? msg.file + ': ' : '') + msg.error;
        document.body.appendChild(pre);
    }

    function clearError() {
        var el = document.getElementById('vhead-error');
        if (el) {
            el.remove();
        }
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '` + path + `');

        ws.onopen = function() {
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            switch (msg.type) {
                case 'head':
                    clearError();
                    applyHead(msg);
                    break;
                case 'error':
                    showError(msg);
                    break;
                case 'clear':
                    clearError();
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>
`
}
